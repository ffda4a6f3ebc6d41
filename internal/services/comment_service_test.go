package services

import (
	"context"

	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/realtime"
)

func (suite *ServiceTestSuite) TestListComments_BuildsReplyTreesInCreationOrder() {
	dashboard := suite.createDashboard("Board", suite.manager)
	task := suite.createTask("Task", dashboard, suite.worker)
	other := suite.createTask("Other", dashboard, suite.worker)

	first := suite.postComment(task, suite.worker, "first", nil)
	second := suite.postComment(task, suite.manager, "second", nil)
	reply := suite.postComment(task, suite.manager, "reply to first", &first.ID)
	suite.postComment(task, suite.worker, "reply to reply", &reply.ID)
	suite.postComment(task, suite.ceo, "second reply to first", &first.ID)
	suite.postComment(other, suite.worker, "elsewhere", nil)

	roots, err := suite.commentService.ListComments(task.ID)
	suite.Require().NoError(err)
	suite.Require().Len(roots, 2)
	suite.Equal(first.ID, roots[0].ID)
	suite.Equal(second.ID, roots[1].ID)
	suite.Equal(suite.worker.ID, roots[0].Author.ID)

	replies := roots[0].Replies
	suite.Require().Len(replies, 2)
	suite.Equal("reply to first", replies[0].Content)
	suite.Equal("second reply to first", replies[1].Content)
	suite.Require().Len(replies[0].Replies, 1)
	suite.Equal("reply to reply", replies[0].Replies[0].Content)
	suite.Empty(roots[1].Replies)

	_, err = suite.commentService.ListComments(9999)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestCreateComment_Validation() {
	dashboard := suite.createDashboard("Board", suite.manager)
	task := suite.createTask("Task", dashboard, suite.worker)
	other := suite.createTask("Other", dashboard)
	foreign := suite.postComment(other, suite.manager, "on another task", nil)

	ctx := context.Background()

	_, err := suite.commentService.CreateComment(ctx, CreateCommentInput{Content: " ", TaskID: task.ID, Author: suite.worker})
	suite.ErrorIs(err, ErrContentRequired)

	_, err = suite.commentService.CreateComment(ctx, CreateCommentInput{Content: "hi", TaskID: 9999, Author: suite.worker})
	suite.ErrorIs(err, ErrTaskNotFound)

	missing := uint64(9999)
	_, err = suite.commentService.CreateComment(ctx, CreateCommentInput{Content: "hi", TaskID: task.ID, Author: suite.worker, ParentID: &missing})
	suite.ErrorIs(err, ErrParentNotFound)

	_, err = suite.commentService.CreateComment(ctx, CreateCommentInput{Content: "hi", TaskID: task.ID, Author: suite.worker, ParentID: &foreign.ID})
	suite.ErrorIs(err, ErrInvalidParent)
}

func (suite *ServiceTestSuite) TestCreateComment_StoresAttachmentAndNotifies() {
	dashboard := suite.createDashboard("Board", suite.manager)
	task := suite.createTask("Fix login", dashboard, suite.worker, suite.outside)

	comment, err := suite.commentService.CreateComment(context.Background(), CreateCommentInput{
		Content:    "screenshot attached",
		TaskID:     task.ID,
		Author:     suite.worker,
		Attachment: attachment("Screen Shot.PNG", "png-bytes"),
	})
	suite.Require().NoError(err)
	suite.Equal(models.CommentStatusPending, comment.Status)
	suite.Equal(suite.worker.ID, comment.Author.ID)
	suite.Require().Len(comment.Files, 1)
	suite.Equal("Screen Shot.PNG", comment.Files[0].FileName)
	suite.Regexp(`^[0-9a-f-]{36}\.png$`, comment.Files[0].FilePath)
	suite.True(suite.store.has(comment.Files[0].FilePath))

	suite.ElementsMatch([]uint64{suite.outside.ID, suite.manager.ID}, suite.notifier.recipients())
	for _, sent := range suite.notifier.sent {
		suite.Equal(realtime.EventNewComment, sent.event.Type)
		suite.Equal(realtime.NewCommentPayload{
			TaskID:     task.ID,
			CommentID:  comment.ID,
			AuthorName: suite.worker.FullName,
			TaskTitle:  "Fix login",
		}, sent.event.Payload)
	}
}

func (suite *ServiceTestSuite) TestCreateComment_OwnerAuthorIsNotNotified() {
	dashboard := suite.createDashboard("Board", suite.manager)
	task := suite.createTask("Task", dashboard, suite.worker)

	suite.postComment(task, suite.manager, "from the owner", nil)
	suite.Equal([]uint64{suite.worker.ID}, suite.notifier.recipients())
}

func (suite *ServiceTestSuite) TestCreateComment_StorageFailureKeepsComment() {
	dashboard := suite.createDashboard("Board", suite.manager)
	task := suite.createTask("Task", dashboard, suite.worker)
	suite.store.saveErr = errDiskFull

	comment, err := suite.commentService.CreateComment(context.Background(), CreateCommentInput{
		Content:    "with broken upload",
		TaskID:     task.ID,
		Author:     suite.worker,
		Attachment: attachment("a.txt", "data"),
	})
	suite.Require().ErrorIs(err, ErrAttachmentStorage)
	suite.Require().NotNil(comment)
	suite.NotZero(comment.ID)
	suite.Empty(comment.Files)

	suite.EqualValues(1, suite.count(&models.Comment{}))
	suite.EqualValues(0, suite.count(&models.File{}))
	suite.Empty(suite.notifier.recipients())
}

func (suite *ServiceTestSuite) TestUpdateCommentStatus_NotifiesAuthor() {
	dashboard := suite.createDashboard("Board", suite.manager)
	task := suite.createTask("Review me", dashboard, suite.worker)
	comment := suite.postComment(task, suite.worker, "done", nil)
	suite.notifier.sent = nil

	updated, err := suite.commentService.UpdateCommentStatus(comment.ID, models.CommentStatusApproved, suite.manager)
	suite.Require().NoError(err)
	suite.Equal(models.CommentStatusApproved, updated.Status)

	stored, err := suite.commentRepo.FindByID(comment.ID)
	suite.Require().NoError(err)
	suite.Equal(models.CommentStatusApproved, stored.Status)

	suite.Require().Len(suite.notifier.sent, 1)
	sent := suite.notifier.sent[0]
	suite.Equal(suite.worker.ID, sent.userID)
	suite.Equal(realtime.EventCommentStatusUpdate, sent.event.Type)
	suite.Equal(realtime.CommentStatusPayload{
		TaskID:       task.ID,
		CommentID:    comment.ID,
		Status:       "approved",
		ReviewerName: suite.manager.FullName,
		TaskTitle:    "Review me",
	}, sent.event.Payload)
}

func (suite *ServiceTestSuite) TestUpdateCommentStatus_SelfReviewIsSilent() {
	dashboard := suite.createDashboard("Board", suite.manager)
	task := suite.createTask("Task", dashboard)
	comment := suite.postComment(task, suite.manager, "note to self", nil)
	suite.notifier.sent = nil

	_, err := suite.commentService.UpdateCommentStatus(comment.ID, models.CommentStatusRejected, suite.manager)
	suite.Require().NoError(err)
	suite.Empty(suite.notifier.sent)
}

func (suite *ServiceTestSuite) TestUpdateCommentStatus_Errors() {
	dashboard := suite.createDashboard("Board", suite.manager)
	task := suite.createTask("Task", dashboard)
	comment := suite.postComment(task, suite.manager, "text", nil)

	_, err := suite.commentService.UpdateCommentStatus(comment.ID, "archived", suite.ceo)
	suite.ErrorIs(err, ErrInvalidCommentStatus)

	_, err = suite.commentService.UpdateCommentStatus(9999, models.CommentStatusApproved, suite.ceo)
	suite.ErrorIs(err, ErrCommentNotFound)
}

func (suite *ServiceTestSuite) TestDeleteComment_Permissions() {
	dashboard := suite.createDashboard("Board", suite.manager)
	task := suite.createTask("Task", dashboard, suite.worker, suite.outside)

	mine, err := suite.commentService.CreateComment(context.Background(), CreateCommentInput{
		Content:    "mine",
		TaskID:     task.ID,
		Author:     suite.worker,
		Attachment: attachment("a.txt", "x"),
	})
	suite.Require().NoError(err)
	suite.postComment(task, suite.outside, "reply", &mine.ID)
	theirs := suite.postComment(task, suite.outside, "theirs", nil)

	suite.ErrorIs(suite.commentService.DeleteComment(theirs.ID, suite.worker), ErrCommentForbidden)

	suite.Require().NoError(suite.commentService.DeleteComment(mine.ID, suite.worker))
	suite.False(suite.store.has(mine.Files[0].FilePath))
	suite.EqualValues(1, suite.count(&models.Comment{}))

	suite.Require().NoError(suite.commentService.DeleteComment(theirs.ID, suite.manager))
	suite.ErrorIs(suite.commentService.DeleteComment(theirs.ID, suite.manager), ErrCommentNotFound)
}
