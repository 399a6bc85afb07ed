package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fullstorydev/grpcurl"
	"github.com/jhump/protoreflect/grpcreflect"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const defaultSidecarAddr = "localhost:9000"

func remoteCmd(ctx context.Context, addr string, args []string) {
	conn, err := grpcurl.BlockingDial(ctx, "tcp", addr, insecure.NewCredentials())
	if err != nil {
		fatal("dial", err)
	}
	defer conn.Close()

	switch args[0] {
	case "services":
		services, err := grpcurl.ListServices(reflectionSource(ctx, conn))
		if err != nil {
			fatal("list services", err)
		}
		for _, service := range services {
			fmt.Println(service)
		}
	case "methods":
		if len(args) < 2 {
			fatal("methods", fmt.Errorf("missing service name"))
		}
		methods, err := grpcurl.ListMethods(reflectionSource(ctx, conn), args[1])
		if err != nil {
			fatal("list methods", err)
		}
		for _, method := range methods {
			fmt.Println(method)
		}
	case "health":
		service := ""
		if len(args) > 1 {
			service = args[1]
		}
		resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
		if err != nil {
			fatal("health", err)
		}
		fmt.Println(resp.GetStatus().String())
		if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
			os.Exit(1)
		}
	}
}

func reflectionSource(ctx context.Context, conn *grpc.ClientConn) grpcurl.DescriptorSource {
	client := grpcreflect.NewClientAuto(ctx, conn)
	return grpcurl.DescriptorSourceFromServer(ctx, client)
}

func resolveAddr(flagAddr string) string {
	if flagAddr != "" {
		return flagAddr
	}
	if value := os.Getenv("DYSON_GRPC_ADDR"); value != "" {
		return value
	}
	return defaultSidecarAddr
}
