package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"evotar/contexts/election-operations/ballot-box/domain/entities"
	domainerrors "evotar/contexts/election-operations/ballot-box/domain/errors"
	"evotar/contexts/election-operations/ballot-box/ports"
	eventsv1 "evotar/contracts/gen/events/v1"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetSession(ctx context.Context, voterID string, electionID string) (entities.VotingSession, bool, error) {
	var row votingSessionModel
	err := r.db.WithContext(ctx).
		Where("voter_id = ? AND election_id = ?", strings.TrimSpace(voterID), strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VotingSession{}, false, nil
		}
		return entities.VotingSession{}, false, r.logError("ballot_repo_get_session_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return row.toEntity(), true, nil
}

// CastBallot performs the atomic cast-if-not-already-cast unit: the guarded
// session flip and every vote insert commit or roll back together. The flip
// statement's WHERE clause is the compare-and-set; a lost race surfaces as
// zero affected rows and is classified by re-reading the session.
func (r *Repository) CastBallot(ctx context.Context, sessionToken string, votes []entities.VoteRecord, now time.Time) error {
	token := strings.TrimSpace(sessionToken)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flip := tx.Model(&votingSessionModel{}).
			Where("token = ? AND has_voted = ? AND expires_at > ?", token, false, now.UTC()).
			Updates(map[string]any{
				"has_voted": true,
				"voted_at":  now.UTC(),
			})
		if flip.Error != nil {
			return r.logError("ballot_repo_cast_flip_failed", flip.Error)
		}
		if flip.RowsAffected == 0 {
			var row votingSessionModel
			err := tx.Where("token = ?", token).First(&row).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrSessionNotFound
				}
				return r.logError("ballot_repo_cast_classify_failed", err)
			}
			if row.HasVoted {
				return domainerrors.ErrAlreadyVoted
			}
			return domainerrors.ErrSessionExpired
		}

		rows := make([]voteModel, 0, len(votes))
		for _, vote := range votes {
			rows = append(rows, voteModel{
				ID:          uuid.NewString(),
				ElectionID:  strings.TrimSpace(vote.ElectionID),
				PositionID:  strings.TrimSpace(vote.PositionID),
				CandidateID: strings.TrimSpace(vote.CandidateID),
				CreatedAt:   now.UTC(),
			})
		}
		if len(rows) == 0 {
			return domainerrors.ErrIncompleteBallot
		}
		if err := tx.Create(&rows).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyVoted
			}
			return r.logError("ballot_repo_cast_insert_failed", err, "votes", len(rows))
		}
		return nil
	})
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (ports.ElectionProjection, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ElectionProjection{}, domainerrors.ErrElectionNotFound
		}
		return ports.ElectionProjection{}, r.logError("ballot_repo_get_election_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return ports.ElectionProjection{
		ElectionID: row.ID,
		Title:      row.Title,
		Status:     row.Status,
		StartsAt:   row.StartsAt.UTC(),
		EndsAt:     row.EndsAt.UTC(),
	}, nil
}

func (r *Repository) ListPositions(ctx context.Context, electionID string) ([]entities.Position, error) {
	var rows []positionModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("display_order ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ballot_repo_list_positions_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.Position, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListCandidates(ctx context.Context, electionID string) ([]entities.Candidate, error) {
	var rows []candidateModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("last_name ASC, first_name ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("ballot_repo_list_candidates_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetVoter(ctx context.Context, voterID string) (entities.VoterProfile, error) {
	var row voterModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoterProfile{}, domainerrors.ErrVoterNotFound
		}
		return entities.VoterProfile{}, r.logError("ballot_repo_get_voter_failed", err)
	}
	return entities.VoterProfile{
		VoterID:   row.ID,
		YearLevel: row.YearLevel,
		Course:    row.Course,
	}, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope eventsv1.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("ballot_repo_append_outbox_encode_failed", err,
			"event_type", envelope.EventType,
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("ballot_repo_append_outbox_insert_failed", create.Error,
			"event_type", envelope.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("ballot_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	at := publishedAt.UTC()
	update := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &at,
		})
	if update.Error != nil {
		return r.logError("ballot_repo_mark_outbox_published_failed", update.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-operations/ballot-box",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("ballot repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type votingSessionModel struct {
	Token      string     `gorm:"column:token;primaryKey"`
	VoterID    string     `gorm:"column:voter_id"`
	ElectionID string     `gorm:"column:election_id"`
	HasVoted   bool       `gorm:"column:has_voted"`
	ExpiresAt  time.Time  `gorm:"column:expires_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	VotedAt    *time.Time `gorm:"column:voted_at"`
}

func (votingSessionModel) TableName() string {
	return "voting_sessions"
}

func (m votingSessionModel) toEntity() entities.VotingSession {
	return entities.VotingSession{
		Token:      m.Token,
		VoterID:    m.VoterID,
		ElectionID: m.ElectionID,
		HasVoted:   m.HasVoted,
		ExpiresAt:  m.ExpiresAt.UTC(),
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

// voteModel intentionally has no voter or session column: recorded ballots
// are not linkable back to who cast them.
type voteModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ElectionID  string    `gorm:"column:election_id"`
	PositionID  string    `gorm:"column:position_id"`
	CandidateID string    `gorm:"column:candidate_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

type electionModel struct {
	ID       string    `gorm:"column:id;primaryKey"`
	Title    string    `gorm:"column:title"`
	Status   string    `gorm:"column:status"`
	StartsAt time.Time `gorm:"column:starts_at"`
	EndsAt   time.Time `gorm:"column:ends_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

type positionModel struct {
	ID                string `gorm:"column:id;primaryKey"`
	ElectionID        string `gorm:"column:election_id"`
	Title             string `gorm:"column:title"`
	Cardinality       int    `gorm:"column:cardinality"`
	EligibleYearLevel int    `gorm:"column:eligible_year_level"`
	DisplayOrder      int    `gorm:"column:display_order"`
}

func (positionModel) TableName() string {
	return "positions"
}

func (m positionModel) toEntity() entities.Position {
	return entities.Position{
		PositionID:        m.ID,
		ElectionID:        m.ElectionID,
		Title:             m.Title,
		Cardinality:       m.Cardinality,
		EligibleYearLevel: m.EligibleYearLevel,
		DisplayOrder:      m.DisplayOrder,
	}
}

type candidateModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	ElectionID string `gorm:"column:election_id"`
	PositionID string `gorm:"column:position_id"`
	FirstName  string `gorm:"column:first_name"`
	LastName   string `gorm:"column:last_name"`
	Course     string `gorm:"column:course"`
	YearLevel  int    `gorm:"column:year_level"`
	PhotoURL   string `gorm:"column:photo_url"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.ID,
		PositionID:  m.PositionID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Course:      m.Course,
		YearLevel:   m.YearLevel,
		PhotoURL:    m.PhotoURL,
	}
}

type voterModel struct {
	ID        string `gorm:"column:id;primaryKey"`
	YearLevel int    `gorm:"column:year_level"`
	Course    string `gorm:"column:course"`
}

func (voterModel) TableName() string {
	return "voters"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "ballot_outbox"
}
