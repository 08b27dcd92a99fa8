package jobs

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	s := NewMemoryStore()
	s.Put(Job{ID: "abc", Status: StatusPending})

	job, ok := s.Get("abc")
	require.True(t, ok)
	assert.Equal(t, StatusPending, job.Status)
	assert.False(t, job.CreatedAt.IsZero())

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestUpdateLifecycle(t *testing.T) {
	s := NewMemoryStore()
	s.Put(Job{ID: "abc", Status: StatusPending})

	assert.True(t, s.Update("abc", StatusProcessing, "", ""))
	assert.True(t, s.Update("abc", StatusCompleted, "http://host/videos/video_abc.mp4", ""))

	job, _ := s.Get("abc")
	assert.Equal(t, StatusCompleted, job.Status)
	require.NotNil(t, job.VideoURL)
	assert.Equal(t, "http://host/videos/video_abc.mp4", *job.VideoURL)
	assert.Equal(t, "Video generation completed successfully.", job.Message)
}

func TestEveryStateCarriesAMessage(t *testing.T) {
	s := NewMemoryStore()
	s.Put(Job{ID: "abc", Status: StatusPending})

	job, _ := s.Get("abc")
	assert.NotEmpty(t, job.Message)
	assert.Nil(t, job.VideoURL)

	s.Update("abc", StatusProcessing, "", "")
	job, _ = s.Get("abc")
	assert.NotEmpty(t, job.Message)
	assert.Nil(t, job.VideoURL)
}

func TestStatusPayloadShape(t *testing.T) {
	s := NewMemoryStore()
	s.Put(Job{ID: "abc", Status: StatusProcessing})

	job, _ := s.Get("abc")
	data, err := json.Marshal(job)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "abc", payload["job_id"])
	assert.Equal(t, "processing", payload["status"])
	assert.NotEmpty(t, payload["message"])
	url, present := payload["video_url"]
	assert.True(t, present, "video_url must be in the payload even before completion")
	assert.Nil(t, url)
}

func TestTerminalStatusIsFinal(t *testing.T) {
	s := NewMemoryStore()
	s.Put(Job{ID: "abc", Status: StatusPending})
	s.Update("abc", StatusFailed, "", "boom")

	assert.False(t, s.Update("abc", StatusProcessing, "", ""))
	assert.False(t, s.Update("abc", StatusCompleted, "url", ""))

	job, _ := s.Get("abc")
	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, "boom", job.Message)
}

func TestUpdateUnknownJob(t *testing.T) {
	s := NewMemoryStore()
	assert.False(t, s.Update("nope", StatusProcessing, "", ""))
}

func TestConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("job-%d", i)
			s.Put(Job{ID: id, Status: StatusPending})
			s.Update(id, StatusProcessing, "", "")
			s.Get(id)
		}(i)
	}
	wg.Wait()

	job, ok := s.Get("job-25")
	require.True(t, ok)
	assert.Equal(t, StatusProcessing, job.Status)
}
