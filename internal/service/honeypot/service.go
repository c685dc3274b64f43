package honeypot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"scamtrap/internal/models"

	"github.com/google/uuid"
)

// Service persists conversations and their append-only transcripts.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// CreateConversation inserts a new conversation for the given scam
// category and returns the record.
func (s *Service) CreateConversation(ctx context.Context, scamType models.ScamType) (*models.Conversation, error) {
	if !models.ValidScamType(scamType) {
		return nil, fmt.Errorf("invalid scam type: %s", scamType)
	}
	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:        uuid.NewString(),
		ScamType:  scamType,
		Status:    models.StatusEngaging,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, scam_type, scam_confidence, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		conv.ID, conv.ScamType, conv.ScamConfidence, conv.Status, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

const conversationColumns = `id, scam_type, scam_confidence, status,
	extracted_bank_account, extracted_ifsc, extracted_upi_id,
	extracted_phishing_link, extracted_phone_number, extracted_wallet_address,
	created_at, updated_at`

func scanConversation(row interface{ Scan(...interface{}) error }) (*models.Conversation, error) {
	var c models.Conversation
	err := row.Scan(
		&c.ID, &c.ScamType, &c.ScamConfidence, &c.Status,
		&c.ExtractedBankAccount, &c.ExtractedIFSC, &c.ExtractedUPIID,
		&c.ExtractedPhishingLink, &c.ExtractedPhoneNumber, &c.ExtractedWalletAddress,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConversation returns one conversation by id.
func (s *Service) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = ?`, id)
	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

// ListConversations returns all conversations, newest first.
func (s *Service) ListConversations(ctx context.Context) ([]*models.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*models.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// AppendMessage stores a new transcript message and touches the
// conversation's updated_at timestamp. Messages are never edited or
// removed afterwards.
func (s *Service) AppendMessage(ctx context.Context, conversationID string, role models.Role, content string) (*models.Message, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("content cannot be empty")
	}
	now := time.Now().UTC()
	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.ConversationID, msg.Role, msg.Content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE conversations SET updated_at = ? WHERE id = ?`, now, conversationID); err != nil {
		return nil, fmt.Errorf("touch conversation: %w", err)
	}
	return msg, nil
}

// ListMessages returns the conversation transcript in ascending
// creation-time order, the order replayed into the relay.
func (s *Service) ListMessages(ctx context.Context, conversationID string) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, created_at FROM messages WHERE conversation_id = ? ORDER BY created_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := new(models.Message)
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ConversationPatch holds the fields a turn result may update. Nil
// fields are left untouched, which is what keeps captured intelligence
// monotonic.
type ConversationPatch struct {
	ScamConfidence *float64
	Status         *models.ConversationStatus
	BankAccount    *string
	IFSC           *string
	UPIID          *string
	PhishingLink   *string
	PhoneNumber    *string
	WalletAddress  *string
}

// PatchConversation applies the non-nil patch fields and returns the
// updated record.
func (s *Service) PatchConversation(ctx context.Context, id string, patch ConversationPatch) (*models.Conversation, error) {
	set := make([]string, 0, 9)
	args := make([]interface{}, 0, 10)

	add := func(column string, value interface{}) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}
	if patch.ScamConfidence != nil {
		add("scam_confidence", *patch.ScamConfidence)
	}
	if patch.Status != nil {
		if !models.ValidStatus(*patch.Status) {
			return nil, fmt.Errorf("invalid status: %s", *patch.Status)
		}
		add("status", *patch.Status)
	}
	if patch.BankAccount != nil {
		add("extracted_bank_account", *patch.BankAccount)
	}
	if patch.IFSC != nil {
		add("extracted_ifsc", *patch.IFSC)
	}
	if patch.UPIID != nil {
		add("extracted_upi_id", *patch.UPIID)
	}
	if patch.PhishingLink != nil {
		add("extracted_phishing_link", *patch.PhishingLink)
	}
	if patch.PhoneNumber != nil {
		add("extracted_phone_number", *patch.PhoneNumber)
	}
	if patch.WalletAddress != nil {
		add("extracted_wallet_address", *patch.WalletAddress)
	}
	add("updated_at", time.Now().UTC())
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("patch conversation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("conversation rows affected: %w", err)
	}
	if affected == 0 {
		return nil, sql.ErrNoRows
	}
	return s.GetConversation(ctx, id)
}

// ConversationStats summarizes all conversations for the dashboard.
type ConversationStats struct {
	Total          int     `json:"total"`
	Engaging       int     `json:"engaging"`
	Completed      int     `json:"completed"`
	Terminated     int     `json:"terminated"`
	AvgConfidence  float64 `json:"avg_confidence"`
	ExtractedCount int     `json:"extracted_count"`
}

// Stats aggregates conversation counts, average confidence and the
// number of conversations holding at least one captured field.
func (s *Service) Stats(ctx context.Context) (*ConversationStats, error) {
	var stats ConversationStats
	err := s.db.QueryRowContext(ctx, `SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN status = 'engaging' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 'terminated' THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(scam_confidence), 0),
		COALESCE(SUM(CASE WHEN extracted_bank_account IS NOT NULL
			OR extracted_ifsc IS NOT NULL
			OR extracted_upi_id IS NOT NULL
			OR extracted_phishing_link IS NOT NULL
			OR extracted_phone_number IS NOT NULL
			OR extracted_wallet_address IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM conversations`,
	).Scan(&stats.Total, &stats.Engaging, &stats.Completed, &stats.Terminated, &stats.AvgConfidence, &stats.ExtractedCount)
	if err != nil {
		return nil, fmt.Errorf("conversation stats: %w", err)
	}
	return &stats, nil
}
