package repositories

import (
	"reflect"
	"testing"

	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

// Like rows must delete hard. A soft-delete column would leave a tombstone
// occupying the (post_id, user_id) unique index after an unlike, so the next
// like of the same pair would be rejected as a duplicate while the visible
// count stays at zero.
func TestLikeRowsDeleteHard(t *testing.T) {
	_, hasDeletedAt := reflect.TypeOf(models.Like{}).FieldByName("DeletedAt")
	assert.False(t, hasDeletedAt, "Like must not carry a soft-delete column")
}

// The bookmark and follow rows share the unique-index-per-pair design and the
// same constraint on deletion.
func TestPairedRowsDeleteHard(t *testing.T) {
	for _, model := range []interface{}{models.SavedPost{}, models.Follow{}} {
		_, hasDeletedAt := reflect.TypeOf(model).FieldByName("DeletedAt")
		assert.False(t, hasDeletedAt)
	}
}
