package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentSearchCondCoversEmail(t *testing.T) {
	sql, args, err := studentSearchCond("asha").ToSql()
	require.NoError(t, err)

	for _, column := range []string{"s.first_name", "s.last_name", "s.temp_roll_number", "s.email"} {
		assert.Contains(t, sql, column+" ILIKE ?")
	}

	require.Len(t, args, 4)
	for _, arg := range args {
		assert.Equal(t, "%asha%", arg)
	}
}

func TestCurrentEventQueryBounds(t *testing.T) {
	now := time.Date(2026, 6, 2, 15, 0, 0, 0, time.Local)

	sql, args, err := currentEventQuery(now).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "start_date <= $2")
	assert.Contains(t, sql, "end_date >= $3")
	assert.Contains(t, sql, "ORDER BY start_date DESC")

	// Both range bounds compare against the same instant. An event whose
	// end_date timestamp passed earlier today is no longer current.
	require.Len(t, args, 3)
	assert.Equal(t, true, args[0])
	assert.Equal(t, now, args[1])
	assert.Equal(t, now, args[2])
}
