package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Toggled(t *testing.T) {
	original := Task{ID: 7, Description: "buy milk"}

	once := original.Toggled()
	assert.True(t, once.IsCompleted)
	assert.Equal(t, original.ID, once.ID)
	assert.Equal(t, original.Description, once.Description)

	// 两次取反回到原值
	twice := once.Toggled()
	assert.Equal(t, original, twice)
}

func TestTask_WithDescription(t *testing.T) {
	original := Task{ID: 3, Description: "old", IsCompleted: true}

	edited := original.WithDescription("new desc")
	assert.Equal(t, int64(3), edited.ID)
	assert.True(t, edited.IsCompleted)
	assert.Equal(t, "new desc", edited.Description)
	assert.Equal(t, "old", original.Description, "原值不应被修改")
}

func TestTask_Contains(t *testing.T) {
	task := Task{Description: "Buy bread"}

	assert.True(t, task.Contains(""))
	assert.True(t, task.Contains("bread"))
	assert.False(t, task.Contains("buy"), "子串匹配区分大小写")
}

func TestFilterType_Match(t *testing.T) {
	done := Task{IsCompleted: true}
	pending := Task{IsCompleted: false}

	assert.True(t, FilterAll.Match(done))
	assert.True(t, FilterAll.Match(pending))
	assert.True(t, FilterCompleted.Match(done))
	assert.False(t, FilterCompleted.Match(pending))
	assert.False(t, FilterPending.Match(done))
	assert.True(t, FilterPending.Match(pending))
}

func TestParseFilterType(t *testing.T) {
	tests := []struct {
		input    string
		expected FilterType
		wantErr  bool
	}{
		{"all", FilterAll, false},
		{"COMPLETED", FilterCompleted, false},
		{" Pending ", FilterPending, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFilterType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidateDescription(t *testing.T) {
	assert.ErrorIs(t, ValidateDescription(""), ErrEmptyDescription)
	assert.ErrorIs(t, ValidateDescription("   \t"), ErrEmptyDescription)
	assert.NoError(t, ValidateDescription("write report"))
}
