package learning

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPath(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 30, 0, 0, time.Local)
	plan, err := MaterializePlan(rawPlan(5))
	require.NoError(t, err)

	profile := UserProfile{Topic: "Kubernetes", Level: LevelIntermediate, Goal: "pass CKA", ContextImage: []byte{1, 2}}
	p := NewPath(profile, plan, now)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Kubernetes", p.Topic)
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, now, p.LastAccessedAt)
	assert.Equal(t, 0, p.ProgressPercent)

	// Profile is copied, not aliased.
	profile.ContextImage[0] = 9
	assert.Equal(t, byte(1), p.UserProfile.ContextImage[0])

	other := NewPath(profile, plan, now)
	assert.NotEqual(t, p.ID, other.ID)
}

func TestFindPath(t *testing.T) {
	paths := []LearningPath{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 1, FindPath(paths, "b"))
	assert.Equal(t, -1, FindPath(paths, "z"))
}

func TestLearningPathJSONFieldNames(t *testing.T) {
	plan, _ := MaterializePlan(rawPlan(1))
	p := NewPath(UserProfile{Topic: "SQL", Level: LevelBeginner}, plan, time.Now())

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	for _, key := range []string{"id", "topic", "createdAt", "lastAccessedAt", "userProfile", "plan", "progress"} {
		assert.Contains(t, generic, key)
	}
	planJSON := generic["plan"].(map[string]any)
	assert.Contains(t, planJSON, "learning_plan")
	assert.Contains(t, planJSON, "estimated_level")
}

func TestChapterContentClone(t *testing.T) {
	c := ChapterContent{
		KeyPoints: []string{"k"},
		Resources: Resources{Videos: []Resource{{Title: "v"}}},
		Quiz:      []Question{mcq("q1", 0)},
	}
	cp := c.Clone()
	cp.KeyPoints[0] = "x"
	cp.Resources.Videos[0].Title = "x"
	cp.Quiz[0].Options[0] = "x"

	assert.Equal(t, "k", c.KeyPoints[0])
	assert.Equal(t, "v", c.Resources.Videos[0].Title)
	assert.Equal(t, "a", c.Quiz[0].Options[0])
}
