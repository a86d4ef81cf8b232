package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixed(t *testing.T) {
	assert.Equal(t, "p.id, p.user_id, p.paid_at", prefixed("p", "\n\tid, user_id,\n\tpaid_at"))
}
