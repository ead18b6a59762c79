package responseformat

import (
	"encoding/json"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	// FormatParam selects the response encoding.
	FormatParam = "format"
	// FormatMsgPack is the FormatParam value that selects MessagePack.
	FormatMsgPack = "msgpack"

	contentTypeJSON    = "application/json"
	contentTypeMsgPack = "application/x-msgpack"
)

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct{}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// ErrorBody is the payload written for failed requests.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// WriteResponse writes data with the given status code. JSON is the default
// format. MessagePack is used when format=msgpack is specified.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, status int, data any) error {
	if wantsMsgPack(req) {
		return f.writeMsgPack(w, status, data)
	}
	return f.writeJSON(w, status, data)
}

// WriteError writes {"detail": detail} with the given status code.
func (f *Formatter) WriteError(w http.ResponseWriter, req *http.Request, status int, detail string) error {
	return f.WriteResponse(w, req, status, ErrorBody{Detail: detail})
}

func wantsMsgPack(req *http.Request) bool {
	return req != nil && req.URL.Query().Get(FormatParam) == FormatMsgPack
}

func (f *Formatter) writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func (f *Formatter) writeMsgPack(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", contentTypeMsgPack)
	w.WriteHeader(status)
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}
