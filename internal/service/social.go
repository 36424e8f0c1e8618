package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"wishcircle-api/internal/apperr"
	"wishcircle-api/internal/core/auth"
	"wishcircle-api/internal/core/cache"
	"wishcircle-api/internal/domain"
	"wishcircle-api/pkg/utils"
)

// 客户端可见的提示语
const (
	MsgSignupFailed       = "Signup failed, please try again later!"
	MsgNameRequired       = "Name must not be empty!"
	MsgUserExists         = "User already exists, please login instead!"
	MsgCreateUserFailed   = "Could not create user, please try again!"
	MsgLoginFailed        = "Login failed, please try again later!"
	MsgInvalidCredentials = "Invalid credentials, could not log you in!"
	MsgCheckCredentials   = "Could not log you in, please check your credentials and try again!"
	MsgUserNotFound       = "User not found, please try again later!"
	MsgAddFriendFailed    = "Could not add friend, please try again later!"
	MsgAddSelf            = "You cannot add yourself as a friend!"
	MsgWishlistFailed     = "Could not add to wishlist, please try again later!"
	MsgNotificationsFail  = "Could not get notifications, please try again later!"
	MsgAddPostFailed      = "Could not add post, please try again later!"
	MsgScoreFailed        = "Could not get score, please try again later!"
	MsgVoteFailed         = "Could not give vote, please try again later!"
)

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type WishlistInput struct {
	UserID       string
	ProductName  string
	ProductPrice string
}

// Attachment 上传文件原始内容
type Attachment struct {
	Filename string
	Data     []byte
}

type PostInput struct {
	UserID string
	Theme  string
	File   *Attachment // 可选
}

type AuthResult struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

type SocialService struct {
	store    domain.Store
	jwt      *auth.JWTer
	cache    *cache.Cache
	scoreTTL time.Duration
	log      *zap.Logger
}

type Option func(*SocialService)

// WithCache 分数读走 redis；nil 表示关闭
func WithCache(c *cache.Cache, ttl time.Duration) Option {
	return func(s *SocialService) {
		s.cache = c
		if ttl > 0 {
			s.scoreTTL = ttl
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *SocialService) { s.log = l }
}

func NewSocialService(store domain.Store, jwter *auth.JWTer, opts ...Option) *SocialService {
	s := &SocialService{store: store, jwt: jwter, log: zap.NewNop(), scoreTTL: time.Minute}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *SocialService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	// 只含空白的名字按空处理
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.BadRequest(MsgNameRequired)
	}
	email := utils.NormalizeEmail(in.Email)

	existing, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal(MsgSignupFailed, err)
	}
	if existing != nil {
		return nil, apperr.Conflict(MsgUserExists)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(MsgCreateUserFailed, err)
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		// 并发注册同一邮箱：唯一索引兜底
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperr.Conflict(MsgUserExists)
		}
		return nil, apperr.Internal(MsgSignupFailed, err)
	}
	signupsTotal.Inc()

	tok, err := s.jwt.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, apperr.Internal(MsgSignupFailed, err)
	}
	return &AuthResult{UserID: u.ID, Email: u.Email, Token: tok}, nil
}

// Login 邮箱不存在与密码错误返回同一错误
func (s *SocialService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	u, err := s.store.Users().FindByEmail(ctx, utils.NormalizeEmail(in.Email))
	if err != nil {
		return nil, apperr.Internal(MsgLoginFailed, err)
	}
	if u == nil {
		return nil, apperr.Forbidden(MsgInvalidCredentials)
	}

	ok, err := utils.CheckPassword(in.Password, u.PasswordHash)
	if err != nil {
		return nil, apperr.Internal(MsgCheckCredentials, err)
	}
	if !ok {
		return nil, apperr.Forbidden(MsgInvalidCredentials)
	}

	tok, err := s.jwt.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, apperr.Internal(MsgLoginFailed, err)
	}
	return &AuthResult{UserID: u.ID, Email: u.Email, Token: tok}, nil
}

// AddFriend 双向关系在同一事务内写入
func (s *SocialService) AddFriend(ctx context.Context, userID, friendEmail string) error {
	return s.store.Transaction(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return apperr.Internal(MsgAddFriendFailed, err)
		}
		friend, err := tx.Users().FindByEmail(ctx, utils.NormalizeEmail(friendEmail))
		if err != nil {
			return apperr.Internal(MsgAddFriendFailed, err)
		}
		if u == nil || friend == nil {
			return apperr.NotFound(MsgUserNotFound)
		}
		if u.ID == friend.ID {
			return apperr.BadRequest(MsgAddSelf)
		}
		if err := tx.Users().LinkFriends(ctx, u, friend); err != nil {
			return apperr.Internal(MsgAddFriendFailed, err)
		}
		return nil
	})
}

// AddToWishlist 每个好友一条通知 + 一条心愿单，任一步失败整体回滚
func (s *SocialService) AddToWishlist(ctx context.Context, in WishlistInput) (*domain.WishlistItem, error) {
	var (
		item   *domain.WishlistItem
		fanout int
	)
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByIDWithFriends(ctx, in.UserID)
		if err != nil {
			return apperr.Internal(MsgWishlistFailed, err)
		}
		if u == nil {
			return apperr.NotFound(MsgUserNotFound)
		}

		for _, f := range u.Friends {
			n := &domain.Notification{
				ID:           utils.NewID(),
				UserID:       f.ID,
				Email:        f.Email,
				Name:         u.Name,
				ProductName:  in.ProductName,
				ProductPrice: in.ProductPrice,
			}
			if err := tx.Notifications().Create(ctx, n); err != nil {
				return apperr.Internal(MsgWishlistFailed, err)
			}
		}

		item = &domain.WishlistItem{
			ID:           utils.NewID(),
			UserID:       u.ID,
			Email:        u.Email,
			Name:         u.Name,
			ProductName:  in.ProductName,
			ProductPrice: in.ProductPrice,
		}
		if err := tx.Wishlists().Create(ctx, item); err != nil {
			return apperr.Internal(MsgWishlistFailed, err)
		}
		fanout = len(u.Friends)
		return nil
	})
	if err != nil {
		return nil, err
	}
	notificationsTotal.Add(float64(fanout))
	return item, nil
}

func (s *SocialService) Notifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	list, err := s.store.Notifications().ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(MsgNotificationsFail, err)
	}
	return list, nil
}

// AddPost 建帖 + 加 100 分；非图片附件直接丢弃
func (s *SocialService) AddPost(ctx context.Context, in PostInput) (*domain.Post, error) {
	if err := s.requireUser(ctx, in.UserID, MsgAddPostFailed); err != nil {
		return nil, err
	}

	post := &domain.Post{ID: utils.NewID(), UserID: in.UserID, Theme: in.Theme}
	if in.File != nil && len(in.File.Data) > 0 {
		mt := mimetype.Detect(in.File.Data)
		if strings.HasPrefix(mt.String(), "image/") {
			post.Image = base64.StdEncoding.EncodeToString(in.File.Data)
		} else {
			s.log.Warn("post attachment dropped: not an image",
				zap.String("userId", in.UserID),
				zap.String("filename", in.File.Filename),
				zap.String("mime", mt.String()),
			)
		}
	}

	var total int64
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		if err := tx.Posts().Create(ctx, post); err != nil {
			return err
		}
		var err error
		total, err = tx.Scores().Add(ctx, in.UserID, domain.PostReward)
		return err
	})
	if err != nil {
		return nil, apperr.Internal(MsgAddPostFailed, err)
	}
	scorePointsTotal.WithLabelValues("post").Add(domain.PostReward)
	s.cacheScore(ctx, in.UserID, total)
	return post, nil
}

// Score 用户存在但尚无分数记录时返回 0
func (s *SocialService) Score(ctx context.Context, userID string) (int64, error) {
	if err := s.requireUser(ctx, userID, MsgScoreFailed); err != nil {
		return 0, err
	}

	load := func(ctx context.Context) (int64, error) {
		sc, err := s.store.Scores().FindByUser(ctx, userID)
		if err != nil {
			return 0, err
		}
		if sc == nil {
			return 0, nil
		}
		return sc.Score, nil
	}

	if s.cache == nil {
		score, err := load(ctx)
		if err != nil {
			return 0, apperr.Internal(MsgScoreFailed, err)
		}
		return score, nil
	}

	b, err := s.cache.GetOrLoad(ctx, scoreKey(userID), s.scoreTTL, func(ctx context.Context) ([]byte, error) {
		score, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return strconv.AppendInt(nil, score, 10), nil
	})
	if err != nil {
		return 0, apperr.Internal(MsgScoreFailed, err)
	}
	score, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, apperr.Internal(MsgScoreFailed, err)
	}
	return score, nil
}

// GiveVote 首次投票得 50，之后每次 +50
func (s *SocialService) GiveVote(ctx context.Context, userID string) (int64, error) {
	if err := s.requireUser(ctx, userID, MsgVoteFailed); err != nil {
		return 0, err
	}
	score, err := s.store.Scores().Add(ctx, userID, domain.VoteReward)
	if err != nil {
		return 0, apperr.Internal(MsgVoteFailed, err)
	}
	scorePointsTotal.WithLabelValues("vote").Add(domain.VoteReward)
	s.cacheScore(ctx, userID, score)
	return score, nil
}

func (s *SocialService) requireUser(ctx context.Context, userID, failMsg string) error {
	u, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return apperr.Internal(failMsg, err)
	}
	if u == nil {
		return apperr.NotFound(MsgUserNotFound)
	}
	return nil
}

// cacheScore 写后回填缓存；分数只增不减，用 SetMax 防止乱序写回旧值
func (s *SocialService) cacheScore(ctx context.Context, userID string, score int64) {
	if s.cache == nil {
		return
	}
	key := scoreKey(userID)
	if err := s.cache.SetMax(ctx, key, score, s.scoreTTL); err != nil {
		s.log.Warn("score cache update failed", zap.String("userId", userID), zap.Error(err))
		// 回填失败时删键，下次读回源
		if err := s.cache.Invalidate(ctx, key); err != nil {
			s.log.Warn("score cache invalidate failed", zap.String("userId", userID), zap.Error(err))
		}
	}
}

func scoreKey(userID string) string { return fmt.Sprintf("score:%s", userID) }
