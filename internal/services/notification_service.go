package services

import (
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/realtime"
)

// Notifier delivers events to connected users. *realtime.Registry satisfies it.
type Notifier interface {
	SendTo(userID uint64, event realtime.Event) bool
	Broadcast(userIDs []uint64, event realtime.Event) int
}

// NotificationService computes recipients for committed comment changes and
// pushes events to them. Delivery is best effort and never reports failure.
type NotificationService struct {
	notifier Notifier
	log      logrus.FieldLogger
}

func NewNotificationService(notifier Notifier, log logrus.FieldLogger) *NotificationService {
	return &NotificationService{
		notifier: notifier,
		log:      log,
	}
}

// CommentRecipients returns the workers of task plus the dashboard owner,
// without the author. Order follows the worker list with the owner last.
func CommentRecipients(workerIDs []uint64, ownerID, authorID uint64) []uint64 {
	seen := map[uint64]struct{}{authorID: {}}
	recipients := make([]uint64, 0, len(workerIDs)+1)

	for _, id := range append(append([]uint64(nil), workerIDs...), ownerID) {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}
	return recipients
}

// NewComment notifies everyone involved in task about a comment by author.
// task must carry its workers and dashboard.
func (s *NotificationService) NewComment(task *models.Task, comment *models.Comment, author *models.User) {
	workerIDs := make([]uint64, 0, len(task.Workers))
	for _, w := range task.Workers {
		workerIDs = append(workerIDs, w.UserID)
	}

	recipients := CommentRecipients(workerIDs, task.Dashboard.OwnerID, author.ID)
	if len(recipients) == 0 {
		return
	}

	event := realtime.Event{
		Type: realtime.EventNewComment,
		Payload: realtime.NewCommentPayload{
			TaskID:     task.ID,
			CommentID:  comment.ID,
			AuthorName: displayName(author),
			TaskTitle:  task.Title,
		},
	}

	delivered := s.notifier.Broadcast(recipients, event)
	s.log.WithFields(logrus.Fields{
		"event":      event.Type,
		"comment_id": comment.ID,
		"recipients": len(recipients),
		"delivered":  delivered,
	}).Debug("Dispatched comment notification")
}

// StatusChanged tells the author of comment that reviewer changed its status.
// Authors reviewing their own comment get nothing.
func (s *NotificationService) StatusChanged(task *models.Task, comment *models.Comment, reviewer *models.User) {
	if reviewer.ID == comment.AuthorID {
		return
	}

	event := realtime.Event{
		Type: realtime.EventCommentStatusUpdate,
		Payload: realtime.CommentStatusPayload{
			TaskID:       task.ID,
			CommentID:    comment.ID,
			Status:       string(comment.Status),
			ReviewerName: displayName(reviewer),
			TaskTitle:    task.Title,
		},
	}

	delivered := s.notifier.SendTo(comment.AuthorID, event)
	s.log.WithFields(logrus.Fields{
		"event":      event.Type,
		"comment_id": comment.ID,
		"author_id":  comment.AuthorID,
		"delivered":  delivered,
	}).Debug("Dispatched status notification")
}

func displayName(u *models.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
