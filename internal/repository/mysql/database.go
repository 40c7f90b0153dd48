package mysql

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(dsn string) error {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Store 聚合各仓储，整体满足 service 层声明的数据访问接口
type Store struct {
	*UserRepository
	*FeedRepository
	*PostRepository
	*CommentRepository
	*LikeRepository
	*BanRepository
	*HashtagRepository
	*AttachmentRepository
	*OutboxRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		UserRepository:       &UserRepository{DB: db},
		FeedRepository:       &FeedRepository{DB: db},
		PostRepository:       &PostRepository{DB: db},
		CommentRepository:    &CommentRepository{DB: db},
		LikeRepository:       &LikeRepository{DB: db},
		BanRepository:        &BanRepository{DB: db},
		HashtagRepository:    &HashtagRepository{DB: db},
		AttachmentRepository: &AttachmentRepository{DB: db},
		OutboxRepository:     &OutboxRepository{DB: db},
	}
}
