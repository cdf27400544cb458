package errcode

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusByKind(t *testing.T) {
	cases := map[*AppError]int{
		BadRequest("x"):               http.StatusBadRequest,
		Unauthenticated("x"):          http.StatusUnauthorized,
		Forbidden("x"):                http.StatusForbidden,
		NotFound("x"):                 http.StatusNotFound,
		Conflict("x"):                 http.StatusConflict,
		TooManyRequests("x"):          http.StatusTooManyRequests,
		Upstream("x", errors.New("")): http.StatusBadGateway,
		Internal(errors.New("boom")):  http.StatusInternalServerError,
	}
	for e, want := range cases {
		assert.Equal(t, want, e.Status(), e.Kind)
	}
}

func TestWrappedSentinelStillMatches(t *testing.T) {
	sentinel := NotFound("视频不存在")

	wrapped := sentinel.Wrap(errors.New("record not found"))
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.Equal(t, "视频不存在", wrapped.Message)

	detailed := wrapped.WithDetails("videoId")
	assert.True(t, errors.Is(detailed, sentinel))
	assert.Equal(t, []string{"videoId"}, detailed.Errors)
	assert.Empty(t, sentinel.Errors)

	other := NotFound("视频不存在")
	assert.False(t, errors.Is(wrapped, other))
}

func TestFromWalksChain(t *testing.T) {
	base := Conflict("用户名已存在")
	err := fmt.Errorf("register: %w", base)

	got := From(err)
	assert.Same(t, base, got)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Nil(t, From(nil))
}
