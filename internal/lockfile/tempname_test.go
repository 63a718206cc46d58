package lockfile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dotlockErrors "github.com/dotlock/dotlock/internal/errors"
)

func TestTempName(t *testing.T) {
	tests := map[string]struct {
		lockPath string
		pid      int
		now      time.Time
		want     string
	}{
		"PidZeroPadded": {
			lockPath: "/var/lock/app.lock",
			pid:      42,
			now:      time.Unix(27, 0), // 27 & 15 == 0xb
			want:     "/var/lock/app.lock.lk00042b",
		},
		"TimeDigitWrapsAtSixteen": {
			lockPath: "/var/lock/app.lock",
			pid:      42,
			now:      time.Unix(16, 0), // 16 & 15 == 0
			want:     "/var/lock/app.lock.lk000420",
		},
		"WidePidNotTruncated": {
			lockPath: "/var/lock/app.lock",
			pid:      1234567,
			now:      time.Unix(1, 0),
			want:     "/var/lock/app.lock.lk12345671",
		},
		"RelativePath": {
			lockPath: "app.lock",
			pid:      7,
			now:      time.Unix(15, 0),
			want:     "app.lock.lk00007f",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tempName(test.lockPath, test.pid, test.now)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestTempNameEmptyPath(t *testing.T) {
	_, err := tempName("", 42, time.Unix(0, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, dotlockErrors.ErrInvalidArgument)
}

func TestTempNameUniquePerPid(t *testing.T) {
	now := time.Unix(100, 0)
	a, err := tempName("/tmp/x.lock", 100, now)
	require.NoError(t, err)
	b, err := tempName("/tmp/x.lock", 101, now)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
