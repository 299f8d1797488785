package utils

import (
	"math"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfWeek_Sunday(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{in: time.Date(2024, 3, 12, 15, 30, 0, 0, time.UTC), want: "2024-03-10"},
		{in: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), want: "2024-03-10"},
		{in: time.Date(2024, 3, 16, 23, 59, 0, 0, time.UTC), want: "2024-03-10"},
		{in: time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), want: "2024-02-25"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DateKey(StartOfWeek(tt.in), time.UTC), tt.in.String())
	}
}

func TestDateKey_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+6", 6*60*60)
	late := time.Date(2024, 3, 12, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-12", DateKey(late, time.UTC))
	assert.Equal(t, "2024-03-13", DateKey(late, loc))
}

func TestParseDateKey(t *testing.T) {
	got, err := ParseDateKey("2024-02-29", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "2024-13-01", "12/03/2024", "2024-02-30"} {
		_, err := ParseDateKey(bad, time.UTC)
		assert.Error(t, err, bad)
	}
}

func TestMonthBoundsAndDays(t *testing.T) {
	first, last := MonthBounds(2024, time.February, time.UTC)
	assert.Equal(t, "2024-02-01", DateKey(first, time.UTC))
	assert.Equal(t, "2024-02-29", DateKey(last, time.UTC))
	assert.Equal(t, 29, DaysInclusive(first, last))
	assert.Equal(t, 1, DaysInclusive(first, first))
}

func TestLoadLocation_Fallback(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation(""))
	assert.Equal(t, time.UTC, LoadLocation("Not/AZone"))
}

func TestFormatHourLabel(t *testing.T) {
	assert.Equal(t, "12:00 AM", FormatHourLabel(0))
	assert.Equal(t, "9:00 AM", FormatHourLabel(9))
	assert.Equal(t, "12:00 PM", FormatHourLabel(12))
	assert.Equal(t, "11:00 PM", FormatHourLabel(23))
}

func TestRoundToTwoDecimals(t *testing.T) {
	assert.Equal(t, 66.67, RoundToTwoDecimals(200.0/3))
	assert.Equal(t, 0.0, RoundToTwoDecimals(math.NaN()))
}

func TestWholeHours(t *testing.T) {
	assert.Equal(t, int64(8), WholeHours(8*3_600_000+3_599_999))
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	userID := uuid.Must(uuid.NewV4())

	token, err := GenerateToken(userID, secret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims["user_id"])

	_, err = ValidateToken(token, []byte("other-secret"))
	assert.Error(t, err)

	id, err := ClaimUserID(claims)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), id)

	_, err = ClaimUserID(map[string]interface{}{"user_id": "not-a-uuid"})
	assert.Error(t, err)
}
