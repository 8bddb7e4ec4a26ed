package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
)

const defaultNotificationLimit = 50

// inboundSelect embeds the sending player on notification reads.
const inboundSelect = "*,sender:players!help_requests_sender_player_id_fkey(id,nickname,first_name,last_name,image_url,user_id)"

// sentSelect embeds the targeted player on sent-history reads.
const sentSelect = "*,target:players!help_requests_target_player_id_fkey(id,nickname,first_name,last_name,image_url)"

// NotificationService handles help requests and the notification inbox built
// on top of them.
type NotificationService struct {
	auth     backend.Auth
	db       backend.Database
	realtime backend.Realtime
	logger   *slog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(auth backend.Auth, db backend.Database, realtime backend.Realtime, logger *slog.Logger) *NotificationService {
	return &NotificationService{auth: auth, db: db, realtime: realtime, logger: logger}
}

// inboundPredicate matches rows addressed to the given player: directed at
// them, or broadcast to everyone.
func inboundPredicate(myPlayerID *int64) string {
	if myPlayerID != nil {
		return fmt.Sprintf("target_player_id.eq.%d,type.eq.general", *myPlayerID)
	}
	return "type.eq.general"
}

// helpRequestInsert is the help_requests row shape on writes.
type helpRequestInsert struct {
	SenderID       uuid.UUID              `json:"sender_id"`
	SenderPlayerID *int64                 `json:"sender_player_id"`
	TargetPlayerID *int64                 `json:"target_player_id"`
	Message        string                 `json:"message"`
	Type           domain.HelpRequestType `json:"type"`
}

// SendHelpRequest sends a message from the authenticated identity, either
// broadcast or directed at one player.
func (s *NotificationService) SendHelpRequest(ctx context.Context, message string, typ domain.HelpRequestType, targetPlayerID *int64) (*domain.HelpRequest, error) {
	user, err := s.auth.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNoSession()
	}

	record := helpRequestInsert{
		SenderID:       user.ID,
		SenderPlayerID: s.myPlayerID(ctx, user.ID),
		TargetPlayerID: targetPlayerID,
		Message:        message,
		Type:           typ,
	}

	var req domain.HelpRequest
	if err := s.db.Insert(ctx, "help_requests", record, &req); err != nil {
		return nil, fmt.Errorf("send help request: %w", err)
	}
	return &req, nil
}

// NotificationOptions tunes an inbox read.
type NotificationOptions struct {
	Limit      int
	UnreadOnly bool
}

// GetMyNotifications returns the authenticated identity's inbound messages,
// newest first: rows directed at their player or broadcast, never their own.
// Returns an empty list when no session exists.
func (s *NotificationService) GetMyNotifications(ctx context.Context, opts NotificationOptions) ([]domain.HelpRequest, error) {
	user, err := s.auth.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []domain.HelpRequest{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	q := backend.From("help_requests").
		Select(inboundSelect).
		Or(inboundPredicate(s.myPlayerID(ctx, user.ID))).
		Neq("sender_id", user.ID).
		OrderByDesc("created_at").
		Limit(limit)
	if opts.UnreadOnly {
		q = q.Eq("read", false)
	}

	var notifications []domain.HelpRequest
	if err := s.db.Select(ctx, q, &notifications); err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}

	s.mergeSenderStatuses(ctx, notifications)
	return notifications, nil
}

// MarkNotificationRead marks a single notification as read. There is no
// transition back to unread.
func (s *NotificationService) MarkNotificationRead(ctx context.Context, id int64) error {
	patch := map[string]bool{"read": true}
	if err := s.db.Update(ctx, "help_requests", patch, backend.From("help_requests").Eq("id", id), nil); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllNotificationsRead marks every unread inbound notification as read.
// A no-op without a session.
func (s *NotificationService) MarkAllNotificationsRead(ctx context.Context) error {
	user, err := s.auth.User(ctx)
	if err != nil || user == nil {
		return nil
	}

	q := backend.From("help_requests").
		Or(inboundPredicate(s.myPlayerID(ctx, user.ID))).
		Neq("sender_id", user.ID).
		Eq("read", false)

	patch := map[string]bool{"read": true}
	if err := s.db.Update(ctx, "help_requests", patch, q, nil); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// DeleteNotification removes a notification row entirely.
func (s *NotificationService) DeleteNotification(ctx context.Context, id int64) error {
	if err := s.db.Delete(ctx, "help_requests", backend.From("help_requests").Eq("id", id)); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

// SendGlobalNotification sends an admin message, broadcast by default. The
// admin check here is a UX guard; row-level security on the backend is the
// security boundary.
func (s *NotificationService) SendGlobalNotification(ctx context.Context, message string, typ domain.HelpRequestType, targetPlayerID *int64) (*domain.HelpRequest, error) {
	user, err := s.auth.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNoSession()
	}

	profile, err := selectOne[domain.Profile](ctx, s.db, backend.From("profiles").Select("id,is_admin").Eq("id", user.ID))
	if err != nil || profile == nil || !profile.IsAdmin {
		return nil, domain.ErrNotAuthorized("No tienes permisos para enviar notificaciones globales")
	}

	if typ == "" {
		typ = domain.HelpRequestGeneral
	}

	record := helpRequestInsert{
		SenderID:       user.ID,
		SenderPlayerID: s.myPlayerID(ctx, user.ID),
		TargetPlayerID: targetPlayerID,
		Message:        message,
		Type:           typ,
	}

	var req domain.HelpRequest
	if err := s.db.Insert(ctx, "help_requests", record, &req); err != nil {
		return nil, fmt.Errorf("send global notification: %w", err)
	}
	return &req, nil
}

// GetAdminSentNotifications returns the messages sent by the authenticated
// identity, newest first, with the targeted player embedded. Returns an
// empty list when no session exists.
func (s *NotificationService) GetAdminSentNotifications(ctx context.Context, limit int) ([]domain.HelpRequest, error) {
	user, err := s.auth.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []domain.HelpRequest{}, nil
	}

	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	q := backend.From("help_requests").
		Select(sentSelect).
		Eq("sender_id", user.ID).
		OrderByDesc("created_at").
		Limit(limit)

	var sent []domain.HelpRequest
	if err := s.db.Select(ctx, q, &sent); err != nil {
		return nil, fmt.Errorf("fetch sent notifications: %w", err)
	}
	return sent, nil
}

// SubscribeToHelpRequests opens a change feed for newly created help
// requests.
func (s *NotificationService) SubscribeToHelpRequests(ctx context.Context, fn func(backend.Change)) (backend.Subscription, error) {
	return s.realtime.Subscribe(ctx, "help_requests", backend.ChangeInsert, fn)
}

// SubscribeToStatusChanges opens a change feed for profile updates, used to
// track status changes.
func (s *NotificationService) SubscribeToStatusChanges(ctx context.Context, fn func(backend.Change)) (backend.Subscription, error) {
	return s.realtime.Subscribe(ctx, "profiles", backend.ChangeUpdate, fn)
}

// myPlayerID resolves the caller's linked player id. Best-effort: lookup
// failures degrade to "no linked player".
func (s *NotificationService) myPlayerID(ctx context.Context, userID uuid.UUID) *int64 {
	player, err := linkedPlayer(ctx, s.db, userID)
	if err != nil {
		s.logger.Debug("resolve linked player", "error", err)
		return nil
	}
	if player == nil {
		return nil
	}
	return &player.ID
}

// mergeSenderStatuses copies each sender's profile status into the embedded
// sender resource, as a secondary lookup.
func (s *NotificationService) mergeSenderStatuses(ctx context.Context, notifications []domain.HelpRequest) {
	ids := make([]uuid.UUID, 0, len(notifications))
	for _, n := range notifications {
		if n.Sender != nil && n.Sender.UserID != nil {
			ids = append(ids, *n.Sender.UserID)
		}
	}
	statuses := profileStatuses(ctx, s.db, ids)
	for i := range notifications {
		sender := notifications[i].Sender
		if sender != nil && sender.UserID != nil {
			if status, ok := statuses[*sender.UserID]; ok {
				sender.Status = status
			}
		}
	}
}
