package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
)

// ImageUpload carries the bytes and content type of an image to store.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// ImageService handles image storage and the replace flows that swap a
// player's or profile's image.
type ImageService struct {
	auth    backend.Auth
	db      backend.Database
	storage backend.ObjectStore
	bucket  string
	logger  *slog.Logger
	now     func() time.Time
}

// NewImageService creates a new ImageService operating on the given bucket.
func NewImageService(auth backend.Auth, db backend.Database, storage backend.ObjectStore, bucket string, logger *slog.Logger) *ImageService {
	return &ImageService{
		auth:    auth,
		db:      db,
		storage: storage,
		bucket:  bucket,
		logger:  logger,
		now:     time.Now,
	}
}

// SanitizeFileName turns arbitrary text into a filesystem- and URL-safe
// slug: decompose accented characters, drop combining marks, map anything
// outside [a-zA-Z0-9-_] to a hyphen, collapse hyphen runs, lowercase.
// Idempotent.
func SanitizeFileName(name string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range norm.NFD.String(name) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.ToLower(b.String())
}

// ExtractStoragePath reverse-maps a public object URL to its storage path by
// locating the public-object marker for the bucket. Returns false when the
// URL does not point into the bucket.
func ExtractStoragePath(publicURL, bucket string) (string, bool) {
	if publicURL == "" {
		return "", false
	}
	marker := "/object/public/" + bucket + "/"
	idx := strings.Index(publicURL, marker)
	if idx == -1 {
		return "", false
	}
	encoded := publicURL[idx+len(marker):]
	if encoded == "" {
		return "", false
	}
	path, err := url.PathUnescape(encoded)
	if err != nil {
		return "", false
	}
	return path, true
}

// UploadPlayerImage stores an image at the bucket root under a
// nickname-derived, timestamped name and returns its public URL. Used by the
// admin roster flow.
func (s *ImageService) UploadPlayerImage(ctx context.Context, nickname string, img ImageUpload) (string, error) {
	name := fmt.Sprintf("%s-%d", SanitizeFileName(nickname), s.now().UnixMilli())
	if err := s.storage.Upload(ctx, s.bucket, name, img.Data, img.ContentType, false); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return s.storage.PublicURL(s.bucket, name), nil
}

// UploadUserPlayerImage stores an image under the uploading identity's id as
// a folder prefix, aligning with the bucket's per-uid access policy, and
// returns its public URL.
func (s *ImageService) UploadUserPlayerImage(ctx context.Context, userID uuid.UUID, label string, img ImageUpload) (string, error) {
	name := fmt.Sprintf("%s-%d", SanitizeFileName(label), s.now().UnixMilli())
	path := userID.String() + "/" + name
	if err := s.storage.Upload(ctx, s.bucket, path, img.Data, img.ContentType, true); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return s.storage.PublicURL(s.bucket, path), nil
}

// DeleteImageByPublicURL removes the object a public URL points at. URLs
// outside the bucket are ignored.
func (s *ImageService) DeleteImageByPublicURL(ctx context.Context, publicURL string) error {
	path, ok := ExtractStoragePath(publicURL, s.bucket)
	if !ok {
		return nil
	}
	if err := s.storage.Remove(ctx, s.bucket, []string{path}); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// ReplaceMyProfileAvatar swaps the authenticated identity's avatar: delete
// the old object best-effort, upload the new one, update avatar_url. The
// three steps are not transactional; an orphaned object on failure is
// tolerated.
func (s *ImageService) ReplaceMyProfileAvatar(ctx context.Context, label string, img ImageUpload) (*domain.Profile, error) {
	user, err := s.auth.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNoSession()
	}

	current, err := selectOne[domain.Profile](ctx, s.db, backend.From("profiles").Eq("id", user.ID))
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound("profile", user.ID.String())
	}

	if current.AvatarURL != nil {
		if err := s.DeleteImageByPublicURL(ctx, *current.AvatarURL); err != nil {
			s.logger.Warn("could not delete previous avatar", "error", err)
		}
	}

	if label == "" {
		label = "vip"
	}
	newURL, err := s.UploadUserPlayerImage(ctx, user.ID, label, img)
	if err != nil {
		return nil, err
	}

	var profile domain.Profile
	patch := map[string]string{"avatar_url": newURL}
	if err := s.db.Update(ctx, "profiles", patch, backend.From("profiles").Eq("id", user.ID), &profile); err != nil {
		return nil, fmt.Errorf("update avatar url: %w", err)
	}
	return &profile, nil
}

// ReplaceMyPlayerImage swaps the image of the player linked to the
// authenticated identity. Same best-effort sequencing as the avatar flow.
func (s *ImageService) ReplaceMyPlayerImage(ctx context.Context, label string, img ImageUpload) (*domain.Player, error) {
	user, err := s.auth.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNoSession()
	}

	current, err := linkedPlayer(ctx, s.db, user.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound("player", "for user "+user.ID.String())
	}

	if current.ImageURL != nil {
		if err := s.DeleteImageByPublicURL(ctx, *current.ImageURL); err != nil {
			s.logger.Warn("could not delete previous image", "error", err)
		}
	}

	if label == "" {
		label = "player"
	}
	newURL, err := s.UploadUserPlayerImage(ctx, user.ID, label, img)
	if err != nil {
		return nil, err
	}

	var player domain.Player
	patch := map[string]string{"image_url": newURL}
	if err := s.db.Update(ctx, "players", patch, backend.From("players").Eq("id", current.ID), &player); err != nil {
		return nil, fmt.Errorf("update image url: %w", err)
	}
	return &player, nil
}
