package discord

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// MockRoundTripper implements http.RoundTripper for intercepting requests
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

// NewTestSession returns a discordgo session whose HTTP traffic goes to
// the returned round tripper. The default response is 204 No Content.
func NewTestSession(t *testing.T) (*discordgo.Session, *MockRoundTripper) {
	t.Helper()

	session, err := NewSession()
	if err != nil {
		t.Fatalf("Failed to create mock session: %v", err)
	}

	transport := &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusNoContent,
				Body:       io.NopCloser(bytes.NewReader(nil)),
				Header:     make(http.Header),
				Request:    req,
			}, nil
		},
	}
	session.Client = &http.Client{Transport: transport}
	session.MaxRestRetries = 0
	return session, transport
}
