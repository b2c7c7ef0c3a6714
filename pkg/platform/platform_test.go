package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_MatchesBuild(t *testing.T) {
	c := Detect()
	assert.Equal(t, isMobile, c.IsMobileTarget())
	assert.Equal(t, isDebug, c.IsDebugProfile())
	assert.Equal(t, runtime.GOOS, c.OS)
	assert.Equal(t, runtime.GOARCH, c.Arch)
}

func TestClassification_String(t *testing.T) {
	tests := []struct {
		c    Classification
		want string
	}{
		{Classification{}, "desktop/release"},
		{Classification{Debug: true}, "desktop/debug"},
		{Classification{Mobile: true}, "mobile/release"},
		{Classification{Mobile: true, Debug: true}, "mobile/debug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.String())
	}
}
