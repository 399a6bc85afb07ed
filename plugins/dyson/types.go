package dyson

// Device is one entry of the account's device manifest.
type Device struct {
	Serial           string `json:"serial"`
	Name             string `json:"name"`
	ProductType      string `json:"productType"`
	ProductTypeName  string `json:"productTypeName"`
	ConnectionType   string `json:"connectionType"`
	LocalCredentials string `json:"-"`
}

// WireState is the vendor's flat key/value device state. Every value is a
// string on the wire, including numbers and booleans.
type WireState map[string]string

// Wire field codes.
const (
	fieldPower       = "fpwr"
	fieldFanSpeed    = "fnsp"
	fieldOscillation = "oson"
	fieldNightMode   = "nmod"
	fieldAutoMode    = "auto"
	fieldHumidity    = "hact"
	fieldTemperature = "tact"
	fieldPM25Legacy  = "pact"
	fieldPM25        = "pm25"
	fieldPM10        = "pm10"
	fieldVOC         = "vact"
	fieldNO2         = "noxl"
)

const (
	wireOn       = "ON"
	wireOff      = "OFF"
	wireFanAuto  = "AUTO"
	FanSpeedAuto = "auto"
)

// Status is the typed projection of a freshly fetched WireState.
type Status struct {
	Power       bool        `json:"power"`
	FanSpeed    string      `json:"fanSpeed"`
	Oscillation bool        `json:"oscillation"`
	NightMode   bool        `json:"nightMode"`
	AutoMode    bool        `json:"autoMode"`
	AirQuality  *AirQuality `json:"airQuality"`
}

// AirQuality holds sensor readings. Temperature is in Celsius.
type AirQuality struct {
	PM25        float64 `json:"pm25"`
	PM10        float64 `json:"pm10"`
	VOC         float64 `json:"voc"`
	NO2         float64 `json:"no2"`
	Humidity    float64 `json:"humidity"`
	Temperature float64 `json:"temperature"`
}

const unknownProductName = "Unknown device"

var productTypeNames = map[string]string{
	"358":  "Pure Humidify+Cool",
	"358E": "Purifier Humidify+Cool",
	"438":  "Pure Cool Tower",
	"438E": "Purifier Cool",
	"455":  "Pure Hot+Cool Link",
	"469":  "Pure Cool Link Desk",
	"475":  "Pure Cool Link",
	"520":  "Pure Cool Desk",
	"527":  "Pure Hot+Cool",
	"527E": "Purifier Hot+Cool",
	"664":  "Purifier Big+Quiet",
}

// ProductTypeName maps a vendor product code to a display name.
func ProductTypeName(code string) string {
	if name, ok := productTypeNames[code]; ok {
		return name
	}
	return unknownProductName
}
