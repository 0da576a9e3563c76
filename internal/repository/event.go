package repository

import (
	"context"
	"fmt"

	"storyforge/internal/model"
)

// AppendEvent writes an audit log entry. A nil actor records a
// system-triggered event.
func (s *Store) AppendEvent(ctx context.Context, gameID string, actorID *string, eventType model.EventType, payload map[string]any) error {
	const query = `
		INSERT INTO game_events (game_id, actor_id, type, payload, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	if payload == nil {
		payload = map[string]any{}
	}
	if _, err := s.q.Exec(ctx, query, gameID, actorID, eventType, payload); err != nil {
		return fmt.Errorf("failed to append game event: %w", err)
	}
	return nil
}

// ListEvents returns a game's audit log entries after the given id, oldest
// first, capped at limit.
func (s *Store) ListEvents(ctx context.Context, gameID string, afterID int64, limit int) ([]*model.GameEvent, error) {
	const query = `
		SELECT id, game_id, actor_id, type, payload, created_at
		FROM game_events
		WHERE game_id = $1 AND id > $2
		ORDER BY id
		LIMIT $3
	`
	rows, err := s.q.Query(ctx, query, gameID, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list game events: %w", err)
	}
	defer rows.Close()

	var events []*model.GameEvent
	for rows.Next() {
		var event model.GameEvent
		if err := rows.Scan(&event.ID, &event.GameID, &event.ActorID,
			&event.Type, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game event: %w", err)
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}
