package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/cambridgeconnect/server/models"
	"github.com/cambridgeconnect/server/utils"
)

// The denormalized counters are maintained by pull-based recomputation, not
// triggers: any code path that inserts posts or replies must call the
// matching function below afterwards, or the stored counters drift.

// RecalculateForumCounts recomputes a forum's PostCount and LastActivity from
// its posts and persists both in a single update. LastActivity is left
// untouched when the forum has no posts; recomputation should not manufacture
// activity.
func RecalculateForumCounts(db *gorm.DB, forumID string) (int, time.Time, error) {
	var postCount int64
	var lastActivity time.Time

	err := db.Transaction(func(tx *gorm.DB) error {
		forum, err := GetForum(tx, forumID)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.ForumPost{}).
			Where("forum_id = ?", forumID).
			Count(&postCount).Error; err != nil {
			return utils.Internal("failed to count forum posts", err)
		}

		updates := map[string]interface{}{"post_count": postCount}
		lastActivity = forum.LastActivity

		if postCount > 0 {
			var latest models.ForumPost
			if err := tx.Where("forum_id = ?", forumID).
				Order("created_at DESC").
				First(&latest).Error; err != nil {
				return utils.Internal("failed to load latest post", err)
			}
			lastActivity = latest.CreatedAt
			updates["last_activity"] = lastActivity
		}

		if err := tx.Model(&models.Forum{}).Where("id = ?", forumID).Updates(updates).Error; err != nil {
			return utils.Internal("failed to update forum counts", err)
		}
		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}
	return int(postCount), lastActivity, nil
}

// RecalculatePostReplyCount recomputes a post's ReplyCount from its replies
// and persists it.
func RecalculatePostReplyCount(db *gorm.DB, postID string) (int, error) {
	if _, err := GetPost(db, postID); err != nil {
		return 0, err
	}

	var replyCount int64
	if err := db.Model(&models.ForumReply{}).
		Where("post_id = ?", postID).
		Count(&replyCount).Error; err != nil {
		return 0, utils.Internal("failed to count replies", err)
	}

	if err := db.Model(&models.ForumPost{}).
		Where("id = ?", postID).
		Update("reply_count", replyCount).Error; err != nil {
		return 0, utils.Internal("failed to update reply count", err)
	}
	return int(replyCount), nil
}
