package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/next-levels/go-cms/auth"
	"github.com/next-levels/go-cms/web/service"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{&service.ValidationError{Fields: map[string]string{"email": "x"}}, http.StatusBadRequest},
		{service.ErrPasswordMismatch, http.StatusBadRequest},
		{service.ErrTokenExpired, http.StatusBadRequest},
		{auth.ErrMissingCredentials, http.StatusBadRequest},
		{fmt.Errorf("update: %w", service.ErrUserNotFound), http.StatusNotFound},
		{service.ErrOrderNotFound, http.StatusNotFound},
		{service.ErrEmailTaken, http.StatusConflict},
		{service.ErrMailSend, http.StatusInternalServerError},
		{fmt.Errorf("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), fmt.Sprint(tt.err))
	}
}

func TestSafeRedirect(t *testing.T) {
	assert.Equal(t, "/admin/users?page=2", safeRedirect("/admin/users?page=2", "/admin"))
	assert.Equal(t, "/admin", safeRedirect("", "/admin"))
	assert.Equal(t, "/admin", safeRedirect("https://evil.example", "/admin"))
	assert.Equal(t, "/admin", safeRedirect("//evil.example", "/admin"))
	assert.Equal(t, "/admin", safeRedirect("/\\evil.example", "/admin"))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1.250", formatNumber(1250))
	assert.Equal(t, "12.500", formatNumber(int64(12500)))
	assert.Equal(t, "abc", formatNumber("abc"))
}

func TestBlankToNil(t *testing.T) {
	empty, blank, street := "", "  ", "Hauptstraße"
	assert.Nil(t, blankToNil(nil))
	assert.Nil(t, blankToNil(&empty))
	assert.Nil(t, blankToNil(&blank))
	assert.Equal(t, &street, blankToNil(&street))
}
