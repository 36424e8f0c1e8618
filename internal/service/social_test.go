package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"wishcircle-api/internal/apperr"
	"wishcircle-api/internal/core/auth"
	"wishcircle-api/internal/core/cache"
	"wishcircle-api/internal/domain"
	"wishcircle-api/internal/repo"
	"wishcircle-api/internal/repo/repotest"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newJWTer() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "wishcircle", TTL: 720 * time.Hour}
}

func newTestService(t *testing.T, opts ...Option) (*SocialService, *gorm.DB) {
	t.Helper()
	db := repotest.NewDB(t)
	return NewSocialService(repo.NewStore(db), newJWTer(), opts...), db
}

func signup(t *testing.T, s *SocialService, name, email string) *AuthResult {
	t.Helper()
	res, err := s.Signup(context.Background(), SignupInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	return res
}

func requireStatus(t *testing.T, err error, status int, msg string) {
	t.Helper()
	require.Error(t, err)
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae), "want *apperr.Error, got %T", err)
	assert.Equal(t, status, ae.Status)
	if msg != "" {
		assert.Equal(t, msg, ae.Msg)
	}
}

func TestSignup_TokenCarriesIdentity(t *testing.T) {
	s, _ := newTestService(t)
	res := signup(t, s, "Ann", " A@X.com ")

	assert.Equal(t, "a@x.com", res.Email)
	c, err := newJWTer().Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, c.UserID)
	assert.Equal(t, "a@x.com", c.Email)
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	s, _ := newTestService(t)
	signup(t, s, "Ann", "a@x.com")

	_, err := s.Signup(context.Background(), SignupInput{Name: "Ann2", Email: "a@x.com", Password: "secret2"})
	requireStatus(t, err, http.StatusUnprocessableEntity, MsgUserExists)
}

func TestSignup_BlankNameRejected(t *testing.T) {
	s, db := newTestService(t)

	_, err := s.Signup(context.Background(), SignupInput{Name: "   ", Email: "a@x.com", Password: "secret1"})
	requireStatus(t, err, http.StatusBadRequest, MsgNameRequired)

	var n int64
	require.NoError(t, db.Model(&domain.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestLogin_NoCredentialOracle(t *testing.T) {
	s, _ := newTestService(t)
	created := signup(t, s, "Ann", "a@x.com")
	ctx := context.Background()

	ok, err := s.Login(ctx, LoginInput{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, created.UserID, ok.UserID)
	assert.NotEmpty(t, ok.Token)

	_, wrongPw := s.Login(ctx, LoginInput{Email: "a@x.com", Password: "wrong1"})
	_, noUser := s.Login(ctx, LoginInput{Email: "nobody@x.com", Password: "secret1"})
	requireStatus(t, wrongPw, http.StatusForbidden, MsgInvalidCredentials)
	requireStatus(t, noUser, http.StatusForbidden, MsgInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), noUser.Error())
}

func TestAddFriend_Symmetric(t *testing.T) {
	s, db := newTestService(t)
	a := signup(t, s, "Ann", "a@x.com")
	b := signup(t, s, "Bob", "b@x.com")

	require.NoError(t, s.AddFriend(context.Background(), a.UserID, "B@x.com"))

	users := repo.NewStore(db).Users()
	ga, err := users.FindByIDWithFriends(context.Background(), a.UserID)
	require.NoError(t, err)
	gb, err := users.FindByIDWithFriends(context.Background(), b.UserID)
	require.NoError(t, err)
	require.Len(t, ga.Friends, 1)
	require.Len(t, gb.Friends, 1)
	assert.Equal(t, b.UserID, ga.Friends[0].ID)
	assert.Equal(t, a.UserID, gb.Friends[0].ID)
}

func TestAddFriend_Errors(t *testing.T) {
	s, _ := newTestService(t)
	a := signup(t, s, "Ann", "a@x.com")
	ctx := context.Background()

	requireStatus(t, s.AddFriend(ctx, a.UserID, "ghost@x.com"), http.StatusNotFound, MsgUserNotFound)
	requireStatus(t, s.AddFriend(ctx, "ghost-id", "a@x.com"), http.StatusNotFound, MsgUserNotFound)
	requireStatus(t, s.AddFriend(ctx, a.UserID, "a@x.com"), http.StatusBadRequest, MsgAddSelf)
}

func TestAddToWishlist_FansOutToEveryFriend(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()
	ann := signup(t, s, "Ann", "a@x.com")
	friends := []*AuthResult{signup(t, s, "Bob", "b@x.com"), signup(t, s, "Cid", "c@x.com")}
	for _, f := range friends {
		require.NoError(t, s.AddFriend(ctx, ann.UserID, f.Email))
	}

	item, err := s.AddToWishlist(ctx, WishlistInput{UserID: ann.UserID, ProductName: "Lamp", ProductPrice: "19.99"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", item.Name)
	assert.Equal(t, "a@x.com", item.Email)

	var total int64
	require.NoError(t, db.Model(&domain.Notification{}).Count(&total).Error)
	assert.EqualValues(t, len(friends), total)
	require.NoError(t, db.Model(&domain.WishlistItem{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)

	for _, f := range friends {
		list, err := s.Notifications(ctx, f.UserID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		n := list[0]
		assert.Equal(t, f.UserID, n.UserID)
		assert.Equal(t, f.Email, n.Email)
		assert.Equal(t, "Ann", n.Name)
		assert.Equal(t, "Lamp", n.ProductName)
		assert.Equal(t, "19.99", n.ProductPrice)
	}

	own, err := s.Notifications(ctx, ann.UserID)
	require.NoError(t, err)
	assert.Empty(t, own)
}

func TestAddToWishlist_UnknownUser(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.AddToWishlist(context.Background(), WishlistInput{UserID: "ghost", ProductName: "x", ProductPrice: "1"})
	requireStatus(t, err, http.StatusNotFound, MsgUserNotFound)
}

func TestAddToWishlist_FailedFanoutRollsBack(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()
	ann := signup(t, s, "Ann", "a@x.com")
	signup(t, s, "Bob", "b@x.com")
	signup(t, s, "Cid", "c@x.com")
	require.NoError(t, s.AddFriend(ctx, ann.UserID, "b@x.com"))
	require.NoError(t, s.AddFriend(ctx, ann.UserID, "c@x.com"))

	// 第二条通知写入失败
	var inserts int
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_second_notification", func(tx *gorm.DB) {
		if tx.Statement.Table != "notifications" {
			return
		}
		inserts++
		if inserts == 2 {
			_ = tx.AddError(errors.New("insert refused"))
		}
	}))

	_, err := s.AddToWishlist(ctx, WishlistInput{UserID: ann.UserID, ProductName: "Lamp", ProductPrice: "10"})
	requireStatus(t, err, http.StatusInternalServerError, MsgWishlistFailed)

	var n int64
	require.NoError(t, db.Model(&domain.Notification{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&domain.WishlistItem{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAddPost_ScoresAndImage(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	ann := signup(t, s, "Ann", "a@x.com")

	score, err := s.Score(ctx, ann.UserID)
	require.NoError(t, err)
	assert.Zero(t, score)

	p, err := s.AddPost(ctx, PostInput{UserID: ann.UserID, Theme: "sunset", File: &Attachment{Filename: "a.png", Data: pngHeader}})
	require.NoError(t, err)
	assert.NotEmpty(t, p.Image)
	score, err = s.Score(ctx, ann.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 100, score)

	p, err = s.AddPost(ctx, PostInput{UserID: ann.UserID, Theme: "notes", File: &Attachment{Filename: "a.txt", Data: []byte("plain text")}})
	require.NoError(t, err)
	assert.Empty(t, p.Image)
	score, err = s.Score(ctx, ann.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 200, score)
}

func TestAddPost_UnknownUser(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.AddPost(context.Background(), PostInput{UserID: "ghost", Theme: "x"})
	requireStatus(t, err, http.StatusNotFound, MsgUserNotFound)
}

func TestGiveVote_FirstVoteIsFifty(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	ann := signup(t, s, "Ann", "a@x.com")

	v, err := s.GiveVote(ctx, ann.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 50, v)

	v, err = s.GiveVote(ctx, ann.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 100, v)

	_, err = s.GiveVote(ctx, "ghost")
	requireStatus(t, err, http.StatusNotFound, MsgUserNotFound)
	_, err = s.Score(ctx, "ghost")
	requireStatus(t, err, http.StatusNotFound, MsgUserNotFound)
}

func TestScore_CacheRefreshedByVoteAndPost(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	s, _ := newTestService(t, WithCache(c, time.Minute))
	ctx := context.Background()
	ann := signup(t, s, "Ann", "a@x.com")
	key := "score:" + ann.UserID

	score, err := s.Score(ctx, ann.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, score)
	cached, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "0", cached)

	_, err = s.GiveVote(ctx, ann.UserID)
	require.NoError(t, err)
	cached, err = mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "50", cached)

	_, err = s.AddPost(ctx, PostInput{UserID: ann.UserID, Theme: "t"})
	require.NoError(t, err)
	score, err = s.Score(ctx, ann.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 150, score)
}

// 读路径回源拿到旧分数时，投票已写回的新分数不能被覆盖
func TestScore_StaleReadDoesNotOverwriteVote(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	s, _ := newTestService(t, WithCache(c, time.Minute))
	ctx := context.Background()
	ann := signup(t, s, "Ann", "a@x.com")
	key := "score:" + ann.UserID

	_, err := s.GiveVote(ctx, ann.UserID)
	require.NoError(t, err)
	mr.Del(key)

	// 回源读到 50 之后、写回之前，另一请求投票并回填 100
	_, err = c.GetOrLoad(ctx, key, time.Minute, func(ctx context.Context) ([]byte, error) {
		_, err := s.GiveVote(ctx, ann.UserID)
		require.NoError(t, err)
		return []byte("50"), nil
	})
	require.NoError(t, err)

	score, err := s.Score(ctx, ann.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 100, score)
}
