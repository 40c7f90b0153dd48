package main

import (
	"context"
	"log"
	"os"
	"strings"

	"River_Social/internal/handler"
	"River_Social/internal/model"
	"River_Social/internal/pkg"
	"River_Social/internal/repository/mysql"
	"River_Social/internal/repository/redis"
	"River_Social/internal/router"
	"River_Social/internal/service"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	dsn := env("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/river_social?charset=utf8mb4&parseTime=True")
	if err := mysql.InitDB(dsn); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init(env("REDIS_ADDR", "127.0.0.1:6379"), env("REDIS_PASSWORD", ""), 0); err != nil {
		panic(err)
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）
	mysql.DB.AutoMigrate(
		&model.User{},
		&model.Feed{},
		&model.Subscription{},
		&model.Post{},
		&model.PostFeed{},
		&model.LocalBump{},
		&model.Comment{},
		&model.PostLike{},
		&model.CommentLike{},
		&model.Ban{},
		&model.Hashtag{},
		&model.PostHashtag{},
		&model.Attachment{},
		&model.RealtimeOutbox{},
	)

	store := mysql.NewStore(mysql.DB)
	banCache := redis.NewBanCacheRepository()

	bans := service.NewBanService(store, banCache)
	vis := service.NewVisibilityService(store, store, store, bans)
	resolver := service.NewFeedService(store, store, store, store, store, bans)
	pub := service.NewRealtimeService(store, vis)

	users := service.NewUserService(store, bans)
	posts := service.NewPostService(store, bans, resolver, vis, pub)
	comments := service.NewCommentService(store, bans, resolver, vis, pub)
	likes := service.NewLikeService(store, resolver, vis, pub)
	timelines := service.NewTimelineService(store, vis, posts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 事件投递：配了 kafka 就投 kafka，否则落日志
	sender := service.LogSender
	if brokers := env("KAFKA_BROKERS", ""); brokers != "" {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   env("KAFKA_TOPIC", "river-social-events"),
		})
		if err != nil {
			panic(err)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	go service.NewOutboxRelayer(store, sender).Run(ctx)
	go service.NewCounterReconciler(&mysql.CounterReconcilerRepository{DB: mysql.DB}).Run(ctx)

	r := router.InitRouter(router.Handlers{
		User:     handler.NewUserHandler(users),
		Post:     handler.NewPostHandler(posts),
		Comment:  handler.NewCommentHandler(comments),
		Like:     handler.NewLikeHandler(likes),
		Timeline: handler.NewTimelineHandler(timelines),
	})
	if err := r.Run(env("HTTP_ADDR", ":8080")); err != nil {
		log.Fatal(err)
	}
}
