package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/totodo-app/totodo/internal/domain"
)

// changePayload is one realtime message on the event stream.
type changePayload struct {
	Record    *taskRow `json:"record"`
	OldRecord *taskRow `json:"old_record"`
	Type      string   `json:"type"` // INSERT / UPDATE / DELETE
}

// Subscribe opens the server-sent-events channel for the owning identity and
// delivers typed task events until ctx is cancelled or the stream ends.
// The returned channel is closed when the subscription terminates.
func (c *Client) Subscribe(ctx context.Context) (<-chan domain.TaskEvent, error) {
	query := url.Values{}
	query.Set("user_id", "eq."+c.userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/realtime/v1/tasks?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build subscribe request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", domain.ErrRemoteUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("subscribe: status %d: %w", resp.StatusCode, domain.ErrRemoteRejected)
	}

	events := make(chan domain.TaskEvent)
	go func() {
		defer close(events)
		defer func() { _ = resp.Body.Close() }()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" {
				continue
			}

			var payload changePayload
			if err := json.Unmarshal([]byte(data), &payload); err != nil {
				continue // skip malformed frames, keep the stream alive
			}
			ev, ok := payload.toEvent()
			if !ok {
				continue
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

// toEvent converts a wire payload into a domain event.
func (p changePayload) toEvent() (domain.TaskEvent, bool) {
	switch p.Type {
	case "INSERT":
		if p.Record == nil {
			return domain.TaskEvent{}, false
		}
		task := p.Record.Task
		return domain.TaskEvent{Kind: domain.EventInsert, TaskID: task.ID, Task: &task}, true
	case "UPDATE":
		if p.Record == nil {
			return domain.TaskEvent{}, false
		}
		task := p.Record.Task
		return domain.TaskEvent{Kind: domain.EventUpdate, TaskID: task.ID, Task: &task}, true
	case "DELETE":
		if p.OldRecord == nil {
			return domain.TaskEvent{}, false
		}
		return domain.TaskEvent{Kind: domain.EventDelete, TaskID: p.OldRecord.ID}, true
	default:
		return domain.TaskEvent{}, false
	}
}
