package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"valid", RegisterRequest{Username: "alice", Password: "secret123"}, false},
		{"username too short", RegisterRequest{Username: "ab", Password: "secret123"}, true},
		{"username missing", RegisterRequest{Username: "", Password: "secret123"}, true},
		{"username too long", RegisterRequest{Username: strings.Repeat("a", 65), Password: "secret123"}, true},
		{"password too short", RegisterRequest{Username: "alice", Password: "12345"}, true},
		{"password missing", RegisterRequest{Username: "alice", Password: ""}, true},
		{"minimum lengths", RegisterRequest{Username: "abc", Password: "123456"}, false},
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

func TestUserToDTOOmitsHash(t *testing.T) {
	u := &User{ID: 7, Username: "alice", HashedPassword: "$2a$12$x", IsActive: true}
	dto := u.ToDTO()

	assert.Equal(t, int64(7), dto.ID)
	assert.Equal(t, "alice", dto.Username)
	assert.True(t, dto.IsActive)
}
