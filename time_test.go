package msig

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cloudwalk/brlc-multisig/errors"
)

func TestUnixTimeUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantTime UnixTime
	}{
		"number of seconds": {
			json:     `1600000000`,
			wantTime: 1600000000,
		},
		"time string": {
			json:     `"2020-09-13T12:26:40Z"`,
			wantTime: 1600000000,
		},
		"zero": {
			json:     `0`,
			wantTime: 0,
		},
		"before epoch": {
			json:    `-1`,
			wantErr: errors.ErrInput,
		},
		"garbage": {
			json:    `"garbage"`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err == nil && got != tc.wantTime {
				t.Fatalf("want %d, got %d", tc.wantTime, got)
			}
		})
	}
}

func TestUnixTimeAdd(t *testing.T) {
	now := AsUnixTime(time.Unix(1600000000, 0))
	if got := now.Add(2 * time.Hour); got != 1600007200 {
		t.Fatalf("unexpected result: %d", got)
	}
	// sub-second durations are truncated
	if got := now.Add(999 * time.Millisecond); got != now {
		t.Fatalf("unexpected result: %d", got)
	}
	if got := now.Add(-time.Minute); got != 1599999940 {
		t.Fatalf("unexpected result: %d", got)
	}
}

func TestUnixDurationUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json    string
		wantErr *errors.Error
		wantDur UnixDuration
	}{
		"number of seconds": {
			json:    `3600`,
			wantDur: 3600,
		},
		"duration string": {
			json:    `"2h"`,
			wantDur: 7200,
		},
		"negative number accepted by parser": {
			json:    `-5`,
			wantDur: -5,
		},
		"garbage": {
			json:    `"garbage"`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixDuration
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err == nil && got != tc.wantDur {
				t.Fatalf("want %d, got %d", tc.wantDur, got)
			}
			if err == nil && tc.wantDur >= 0 {
				if verr := got.Validate(); verr != nil {
					t.Fatalf("validation: %+v", verr)
				}
			}
		})
	}
}
