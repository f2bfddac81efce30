package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateSessionRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateSessionRequest
		wantErr bool
	}{
		{"empty language", CreateSessionRequest{}, false},
		{"known language", CreateSessionRequest{Language: "Spanish"}, false},
		{"lowercase language", CreateSessionRequest{Language: "german"}, false},
		{"unknown language", CreateSessionRequest{Language: "Klingon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSendMessageRequestValidate(t *testing.T) {
	assert.NoError(t, (&SendMessageRequest{Message: "hello"}).Validate())
	assert.Error(t, (&SendMessageRequest{}).Validate())
	assert.Error(t, (&SendMessageRequest{Message: strings.Repeat("a", 4001)}).Validate())
}

func TestExportTranscriptRequestValidate(t *testing.T) {
	assert.NoError(t, (&ExportTranscriptRequest{}).Validate())
	assert.NoError(t, (&ExportTranscriptRequest{Filename: "jo.txt"}).Validate())
	assert.Error(t, (&ExportTranscriptRequest{Filename: "../etc/passwd"}).Validate())
}
