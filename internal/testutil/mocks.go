// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"slices"
	"time"

	"github.com/totodo-app/totodo/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the configured time forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MockLocalStore is an in-memory test double for domain.LocalStore.
// Error fields, when set, are returned by the matching write operation.
// Fields are ordered to minimize memory padding.
type MockLocalStore struct {
	TasksData   []domain.Task
	ChangesData []domain.PendingChange
	LastSyncAt  time.Time

	SaveErr   error
	AddErr    error
	UpdateErr error
	DeleteErr error
	AppendErr error
	ChangeErr error
	RemoveErr error
	ClearErr  error
}

// NewMockLocalStore creates an empty MockLocalStore.
func NewMockLocalStore() *MockLocalStore {
	return &MockLocalStore{}
}

// Tasks returns the stored tasks.
func (m *MockLocalStore) Tasks() []domain.Task {
	return slices.Clone(m.TasksData)
}

// SaveTasks replaces the stored tasks.
func (m *MockLocalStore) SaveTasks(tasks []domain.Task) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.TasksData = slices.Clone(tasks)
	return nil
}

// AddTask appends a task.
func (m *MockLocalStore) AddTask(task domain.Task) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	m.TasksData = append(m.TasksData, task)
	return nil
}

// UpdateTask applies a patch to the stored task.
func (m *MockLocalStore) UpdateTask(id string, patch domain.TaskPatch, now time.Time) (*domain.Task, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	for i := range m.TasksData {
		if m.TasksData[i].ID == id {
			m.TasksData[i].Apply(patch, now)
			return m.TasksData[i].Clone(), nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

// DeleteTask removes the stored task.
func (m *MockLocalStore) DeleteTask(id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i := range m.TasksData {
		if m.TasksData[i].ID == id {
			m.TasksData = slices.Delete(m.TasksData, i, i+1)
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

// PendingChanges returns the stored change log.
func (m *MockLocalStore) PendingChanges() []domain.PendingChange {
	return slices.Clone(m.ChangesData)
}

// AppendChange appends a change log entry.
func (m *MockLocalStore) AppendChange(change domain.PendingChange) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.ChangesData = append(m.ChangesData, change)
	return nil
}

// UpdateChange replaces the entry with the same id.
func (m *MockLocalStore) UpdateChange(change domain.PendingChange) error {
	if m.ChangeErr != nil {
		return m.ChangeErr
	}
	for i := range m.ChangesData {
		if m.ChangesData[i].ID == change.ID {
			m.ChangesData[i] = change
			return nil
		}
	}
	return domain.ErrChangeNotFound
}

// RemoveChange removes the entry with the given id.
func (m *MockLocalStore) RemoveChange(id string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	for i := range m.ChangesData {
		if m.ChangesData[i].ID == id {
			m.ChangesData = slices.Delete(m.ChangesData, i, i+1)
			return nil
		}
	}
	return domain.ErrChangeNotFound
}

// LastSync returns the recorded last sync time.
func (m *MockLocalStore) LastSync() time.Time {
	return m.LastSyncAt
}

// SetLastSync records the last sync time.
func (m *MockLocalStore) SetLastSync(t time.Time) error {
	m.LastSyncAt = t
	return nil
}

// Clear wipes all stored state.
func (m *MockLocalStore) Clear() error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.TasksData = nil
	m.ChangesData = nil
	m.LastSyncAt = time.Time{}
	return nil
}

// Info reports storage usage.
func (m *MockLocalStore) Info() domain.StorageInfo {
	return domain.StorageInfo{Path: "mock", Tasks: len(m.TasksData)}
}

// MockRemoteStore is a scripted test double for domain.RemoteStore.
// Error fields, when set, are returned by the matching operation; call
// recording fields collect the arguments of every attempt.
// Fields are ordered to minimize memory padding.
type MockRemoteStore struct {
	FetchData []domain.Task
	Events    chan domain.TaskEvent

	InsertErr    error
	UpdateErr    error
	DeleteErr    error
	FetchErr     error
	SubscribeErr error

	Inserted []domain.Task
	Updated  []domain.Task
	Deleted  []string
}

// NewMockRemoteStore creates an empty MockRemoteStore.
func NewMockRemoteStore() *MockRemoteStore {
	return &MockRemoteStore{}
}

// InsertTask records the call and echoes the task back as the stored row.
func (m *MockRemoteStore) InsertTask(_ context.Context, task domain.Task) (*domain.Task, error) {
	m.Inserted = append(m.Inserted, task)
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	return task.Clone(), nil
}

// UpdateTask records the call.
func (m *MockRemoteStore) UpdateTask(_ context.Context, task domain.Task) error {
	m.Updated = append(m.Updated, task)
	return m.UpdateErr
}

// DeleteTask records the call.
func (m *MockRemoteStore) DeleteTask(_ context.Context, id string) error {
	m.Deleted = append(m.Deleted, id)
	return m.DeleteErr
}

// FetchTasks returns the scripted collection.
func (m *MockRemoteStore) FetchTasks(_ context.Context) ([]domain.Task, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return slices.Clone(m.FetchData), nil
}

// Subscribe returns the scripted event channel.
func (m *MockRemoteStore) Subscribe(_ context.Context) (<-chan domain.TaskEvent, error) {
	if m.SubscribeErr != nil {
		return nil, m.SubscribeErr
	}
	if m.Events == nil {
		m.Events = make(chan domain.TaskEvent)
	}
	return m.Events, nil
}

// MockConnectivity is a test double for domain.Connectivity.
type MockConnectivity struct {
	Transitions chan bool
	IsOnline    bool
}

// NewMockConnectivity creates a MockConnectivity with the given state.
func NewMockConnectivity(online bool) *MockConnectivity {
	return &MockConnectivity{IsOnline: online, Transitions: make(chan bool, 8)}
}

// Online returns the configured flag.
func (m *MockConnectivity) Online() bool {
	return m.IsOnline
}

// MarkOnline sets the flag and records a transition.
func (m *MockConnectivity) MarkOnline() {
	if !m.IsOnline {
		m.IsOnline = true
		m.Transitions <- true
	}
}

// MarkOffline clears the flag and records a transition.
func (m *MockConnectivity) MarkOffline() {
	if m.IsOnline {
		m.IsOnline = false
		m.Transitions <- false
	}
}

// Subscribe returns the transition channel.
func (m *MockConnectivity) Subscribe() <-chan bool {
	return m.Transitions
}

// MockNotifier records notices for assertion.
type MockNotifier struct {
	Notices []Notice
}

// Notice is one recorded notification.
type Notice struct {
	Title string
	Body  string
	Warn  bool
}

// Info records a normal notice.
func (m *MockNotifier) Info(title, body string) {
	m.Notices = append(m.Notices, Notice{Title: title, Body: body})
}

// Warn records a failure notice.
func (m *MockNotifier) Warn(title, body string) {
	m.Notices = append(m.Notices, Notice{Title: title, Body: body, Warn: true})
}

// Titles returns the titles of all recorded notices in order.
func (m *MockNotifier) Titles() []string {
	titles := make([]string, 0, len(m.Notices))
	for _, n := range m.Notices {
		titles = append(titles, n.Title)
	}
	return titles
}

// MockArchiver records snapshot requests.
type MockArchiver struct {
	Labels      []string
	SnapshotErr error
}

// Snapshot records the label.
func (m *MockArchiver) Snapshot(label string, _ []domain.Task, _ []domain.PendingChange, _ time.Time) error {
	if m.SnapshotErr != nil {
		return m.SnapshotErr
	}
	m.Labels = append(m.Labels, label)
	return nil
}

// NopLogger discards all log output.
type NopLogger struct{}

// Debug discards the entry.
func (NopLogger) Debug(string, string) {}

// Info discards the entry.
func (NopLogger) Info(string, string) {}

// Warn discards the entry.
func (NopLogger) Warn(string, string) {}

// Error discards the entry.
func (NopLogger) Error(string, string) {}

// Interface checks.
var (
	_ domain.LocalStore   = (*MockLocalStore)(nil)
	_ domain.RemoteStore  = (*MockRemoteStore)(nil)
	_ domain.Connectivity = (*MockConnectivity)(nil)
	_ domain.Clock        = (*MockClock)(nil)
	_ domain.Notifier     = (*MockNotifier)(nil)
	_ domain.Archiver     = (*MockArchiver)(nil)
	_ domain.Logger       = NopLogger{}
)
