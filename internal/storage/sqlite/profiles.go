package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/concierge/internal/core"
)

type Profiles struct {
	db *sql.DB
}

func NewProfiles(db *sql.DB) *Profiles {
	return &Profiles{db: db}
}

func (p *Profiles) Profile(ctx context.Context, tenantID int64, channel core.Channel) (core.FormattingProfile, error) {
	query := `SELECT use_markdown, use_emoji, use_lists, list_bullet, emoji_map
		FROM formatting_profiles WHERE tenant_id = ? AND channel = ?`

	var profile core.FormattingProfile
	var emojiMap string
	err := p.db.QueryRowContext(ctx, query, tenantID, string(channel)).Scan(
		&profile.UseMarkdown, &profile.UseEmoji, &profile.UseListFormatting, &profile.ListBullet, &emojiMap)
	if errors.Is(err, sql.ErrNoRows) {
		return core.FormattingProfile{}, core.ErrProfileMissing
	}
	if err != nil {
		return core.FormattingProfile{}, fmt.Errorf("failed to query formatting profile: %w", err)
	}

	if emojiMap != "" {
		if err := json.Unmarshal([]byte(emojiMap), &profile.EmojiMap); err != nil {
			return core.FormattingProfile{}, fmt.Errorf("malformed emoji map: %w", err)
		}
	}
	return profile, nil
}

// SaveProfile upserts a tenant's per-channel profile. Used by the admin
// collaborator and by tests.
func (p *Profiles) SaveProfile(ctx context.Context, tenantID int64, channel core.Channel, profile core.FormattingProfile) error {
	emojiMap := ""
	if len(profile.EmojiMap) > 0 {
		data, err := json.Marshal(profile.EmojiMap)
		if err != nil {
			return fmt.Errorf("failed to marshal emoji map: %w", err)
		}
		emojiMap = string(data)
	}

	query := `INSERT INTO formatting_profiles (tenant_id, channel, use_markdown, use_emoji, use_lists, list_bullet, emoji_map)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, channel) DO UPDATE SET
			use_markdown = excluded.use_markdown,
			use_emoji = excluded.use_emoji,
			use_lists = excluded.use_lists,
			list_bullet = excluded.list_bullet,
			emoji_map = excluded.emoji_map`

	_, err := p.db.ExecContext(ctx, query, tenantID, string(channel),
		profile.UseMarkdown, profile.UseEmoji, profile.UseListFormatting, profile.ListBullet, emojiMap)
	if err != nil {
		return fmt.Errorf("failed to upsert formatting profile: %w", err)
	}
	return nil
}
