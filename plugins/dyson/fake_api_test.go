package dyson

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "user@example.com"
	testPassword = "hunter2"
	testSerial   = "NK6-EU-MHA0000A"
)

const testManifest = `[
  {"Serial":"NK6-EU-MHA0000A","Name":"Bedroom","ProductType":"438","ConnectionType":"wss","LocalCredentials":"secret"},
  {"Serial":"VS9-EU-KDA0000B","Name":"Living Room","ProductType":"999","ConnectionType":"wss"}
]`

// fakeAPI stands in for the Dyson cloud.
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server

	mu            sync.Mutex
	token         string
	authStatus    int
	patchStatus   int
	rejectAll     bool
	manifest      string
	states        map[string]map[string]string
	patches       []map[string]string
	authCalls     int
	manifestCalls int
	stateCalls    int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{
		t:        t,
		manifest: testManifest,
		states: map[string]map[string]string{
			testSerial: {
				"fpwr": "ON",
				"fnsp": "0007",
				"oson": "ON",
				"nmod": "OFF",
				"auto": "OFF",
				"pm25": "0011",
				"pm10": "0014",
				"vact": "0003",
				"noxl": "0002",
				"hact": "0045",
				"tact": "2982",
			},
			"VS9-EU-KDA0000B": {
				"fpwr": "OFF",
				"fnsp": "AUTO",
				"auto": "ON",
			},
		},
	}
	api.server = httptest.NewServer(http.HandlerFunc(api.handle))
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAPI) client() *Client {
	a.t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client, err := NewClient(Config{
		Email:    testEmail,
		Password: testPassword,
		BaseURL:  a.server.URL,
	}, logger)
	require.NoError(a.t, err)
	return client
}

// expireSession makes the currently issued token invalid.
func (a *fakeAPI) expireSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = "expired"
}

func (a *fakeAPI) set(fn func(a *fakeAPI)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a)
}

func (a *fakeAPI) counts() (auth, manifest, state int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authCalls, a.manifestCalls, a.stateCalls
}

func (a *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r.URL.Path == authPath {
		a.authenticate(w, r)
		return
	}

	if a.rejectAll || a.token == "" || r.Header.Get("Authorization") != "Bearer "+a.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch {
	case r.URL.Path == manifestPath && r.Method == http.MethodGet:
		a.manifestCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, a.manifest)
	case strings.HasPrefix(r.URL.Path, "/v2/provisioningservice/devices/") && strings.HasSuffix(r.URL.Path, "/state"):
		serial := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v2/provisioningservice/devices/"), "/state")
		state, ok := a.states[serial]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			a.stateCalls++
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(state)
		case http.MethodPatch:
			if a.patchStatus != 0 {
				w.WriteHeader(a.patchStatus)
				return
			}
			var patch map[string]string
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			for key, value := range patch {
				state[key] = value
			}
			a.patches = append(a.patches, patch)
			_, _ = io.WriteString(w, `{"ignored":true}`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		a.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func (a *fakeAPI) authenticate(w http.ResponseWriter, r *http.Request) {
	a.authCalls++
	if r.Method != http.MethodPost {
		a.t.Errorf("expected POST to %s, got %s", authPath, r.Method)
	}
	if a.authStatus != 0 {
		w.WriteHeader(a.authStatus)
		return
	}

	var creds struct {
		Email    string
		Password string
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email != testEmail || creds.Password != testPassword {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	a.token = fmt.Sprintf("token-%d", a.authCalls)
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"Account":%q,"Password":"ignored"}`, a.token)
}
