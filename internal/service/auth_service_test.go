package service

import (
	"bytes"
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/util"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripFunc 把函数适配成 RoundTripper，拦截对 Google 的外呼
type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func stubClient(status int, body string) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(bytes.NewBufferString(body)),
				Header:     make(http.Header),
			}, nil
		}),
	}
}

func TestVerifyGoogleIDToken(t *testing.T) {
	cfg := &config.Config{}
	cfg.Google.ClientID = "platform-client-id"

	t.Run("Valid", func(t *testing.T) {
		s := &AuthService{
			Cfg:        cfg,
			HTTPClient: stubClient(200, `{"aud":"platform-client-id","sub":"google-123","email":"stu@example.com","name":"学生甲","picture":"https://p/avatar.png"}`),
		}

		info, err := s.verifyGoogleIDToken("some-token")
		require.NoError(t, err)
		assert.Equal(t, "google-123", info.Sub)
		assert.Equal(t, "stu@example.com", info.Email)
		assert.Equal(t, "学生甲", info.Name)
	})

	t.Run("AudMismatch", func(t *testing.T) {
		s := &AuthService{
			Cfg:        cfg,
			HTTPClient: stubClient(200, `{"aud":"other-app","sub":"google-123","email":"stu@example.com"}`),
		}

		_, err := s.verifyGoogleIDToken("some-token")
		assert.ErrorIs(t, err, util.ErrInvalidGoogleToken)
	})

	t.Run("MissingEmail", func(t *testing.T) {
		s := &AuthService{
			Cfg:        cfg,
			HTTPClient: stubClient(200, `{"aud":"platform-client-id","sub":"google-123"}`),
		}

		_, err := s.verifyGoogleIDToken("some-token")
		assert.ErrorIs(t, err, util.ErrInvalidGoogleToken)
	})

	t.Run("TokenRejected", func(t *testing.T) {
		s := &AuthService{
			Cfg:        cfg,
			HTTPClient: stubClient(400, `{"error":"invalid_token"}`),
		}

		_, err := s.verifyGoogleIDToken("bad-token")
		assert.ErrorIs(t, err, util.ErrInvalidGoogleToken)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		s := &AuthService{
			Cfg:        &config.Config{},
			HTTPClient: stubClient(200, `{}`),
		}

		_, err := s.verifyGoogleIDToken("some-token")
		assert.Error(t, err)
	})
}
