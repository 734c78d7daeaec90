package validators

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseQueryInt(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		want    int
		wantErr bool
	}{
		{"absent uses default", "/?other=1", 25, false},
		{"valid value", "/?limit=50", 50, false},
		{"non-numeric rejected", "/?limit=abc", 0, true},
		{"below range rejected", "/?limit=-1", 0, true},
		{"above range rejected", "/?limit=101", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			got, err := ParseQueryInt(r, "limit", 25, 0, 100)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseQueryUUID(t *testing.T) {
	r := httptest.NewRequest("GET", "/?cashier_id=6dd64b8c-0f52-43f6-b1b5-d1297b1dcbaf", nil)
	id, err := ParseQueryUUID(r, "cashier_id")
	require.NoError(t, err)
	require.NotNil(t, id)
	require.Equal(t, "6dd64b8c-0f52-43f6-b1b5-d1297b1dcbaf", id.String())

	r = httptest.NewRequest("GET", "/", nil)
	id, err = ParseQueryUUID(r, "cashier_id")
	require.NoError(t, err)
	require.Nil(t, id)

	r = httptest.NewRequest("GET", "/?cashier_id=nope", nil)
	_, err = ParseQueryUUID(r, "cashier_id")
	require.Error(t, err)
}

func TestParseQueryTime(t *testing.T) {
	r := httptest.NewRequest("GET", "/?from=2026-01-02T15:04:05Z", nil)
	ts, err := ParseQueryTime(r, "from")
	require.NoError(t, err)
	require.NotNil(t, ts)
	require.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), ts.UTC())

	r = httptest.NewRequest("GET", "/?from=yesterday", nil)
	_, err = ParseQueryTime(r, "from")
	require.Error(t, err)
}

func TestParseQueryBool(t *testing.T) {
	r := httptest.NewRequest("GET", "/?low_stock=true", nil)
	got, err := ParseQueryBool(r, "low_stock")
	require.NoError(t, err)
	require.True(t, got)

	r = httptest.NewRequest("GET", "/", nil)
	got, err = ParseQueryBool(r, "low_stock")
	require.NoError(t, err)
	require.False(t, got)

	r = httptest.NewRequest("GET", "/?low_stock=maybe", nil)
	_, err = ParseQueryBool(r, "low_stock")
	require.Error(t, err)
}
