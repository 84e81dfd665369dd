package cruise

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineDate(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		layout string
		want   string
	}{
		{"wall date", "2017-03-03", "01022006", "03032017"},
		{"wall date time", "2017-03-03T00:00:00", "01-02-2006", "03-03-2017"},
		{"utc midnight is the previous day in the home zone", "2017-03-03T00:00:00Z", "01022006", "03022017"},
		{"offset kept in the home zone", "2017-03-03T12:00:00-05:00", "01-02-2006", "03-03-2017"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engineDate(tt.value, tt.layout)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := engineDate("03/03/2017", "01022006")
	assert.Error(t, err)
}

func TestParseSailDate(t *testing.T) {
	got, err := ParseSailDate("2017-03-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2017, 3, 3, 0, 0, 0, 0, time.UTC), got)
}
