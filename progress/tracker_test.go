package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskLifecycle(t *testing.T) {
	tr := NewTracker()

	tr.Apply(Notification{Token: "A", Kind: KindBegin, Title: "Indexing", Percentage: 0, HasPercentage: true})
	tr.Apply(Notification{Token: "A", Kind: KindReport, Percentage: 50, HasPercentage: true})

	task, ok := tr.Get("A")
	require.True(t, ok)
	assert.Equal(t, "Indexing", task.Title, "report without a title keeps the begin title")
	assert.Equal(t, 50, task.Percentage)

	tr.Apply(Notification{Token: "A", Kind: KindEnd})
	_, ok = tr.Get("A")
	assert.False(t, ok, "ended task must be removed")
	assert.True(t, tr.Empty())
}

func TestUnknownTokenIsIgnored(t *testing.T) {
	tr := NewTracker()

	changes := 0
	tr.OnChange = func() { changes++ }

	tr.Apply(Notification{Token: "B", Kind: KindReport, Percentage: 10, HasPercentage: true})
	tr.Apply(Notification{Token: "B", Kind: KindEnd})

	assert.True(t, tr.Empty(), "report/end on a never-begun token must not create state")
	assert.Zero(t, changes, "no-op transitions must not fire OnChange")
}

func TestBeginReplacesReusedToken(t *testing.T) {
	tr := NewTracker()

	tr.Apply(Notification{Token: "A", Kind: KindBegin, Title: "First", Message: "old", Percentage: 90, HasPercentage: true})
	tr.Apply(Notification{Token: "A", Kind: KindBegin, Title: "Second"})

	task, ok := tr.Get("A")
	require.True(t, ok)
	assert.Equal(t, "Second", task.Title)
	assert.Empty(t, task.Message, "a reused token starts from a clean task")
	assert.False(t, task.HasPercentage)
	assert.Len(t, tr.Tasks(), 1)
}

func TestReportMergesOnlyPresentFields(t *testing.T) {
	tr := NewTracker()

	tr.Apply(Notification{Token: "A", Kind: KindBegin, Title: "Build", Message: "compiling", Percentage: 10, HasPercentage: true})
	tr.Apply(Notification{Token: "A", Kind: KindReport, Message: "linking"})

	task, _ := tr.Get("A")
	assert.Equal(t, "Build", task.Title)
	assert.Equal(t, "linking", task.Message)
	assert.Equal(t, 10, task.Percentage, "absent percentage keeps prior value")
}

func TestTasksPreserveInsertionOrder(t *testing.T) {
	tr := NewTracker()

	tr.Apply(Notification{Token: "lsp-1", Kind: KindBegin, Title: "Indexing"})
	tr.Apply(Notification{Token: "lsp-2", Kind: KindBegin, Title: "Diagnostics"})
	tr.Apply(Notification{Token: "lsp-3", Kind: KindBegin, Title: "Formatting"})
	tr.Apply(Notification{Token: "lsp-2", Kind: KindEnd})

	tasks := tr.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "Indexing", tasks[0].Title)
	assert.Equal(t, "Formatting", tasks[1].Title)
}

func TestOnChangeFiresPerStateChange(t *testing.T) {
	tr := NewTracker()

	changes := 0
	tr.OnChange = func() { changes++ }

	tr.Apply(Notification{Token: "A", Kind: KindBegin})
	tr.Apply(Notification{Token: "A", Kind: KindReport, Message: "working"})
	tr.Apply(Notification{Token: "A", Kind: KindEnd})
	tr.Apply(Notification{Token: "A", Kind: KindEnd}) // late duplicate

	assert.Equal(t, 3, changes)
}
