package main

import (
	"context"
	"time"

	"bookstore/internal/bootstrap"
	"bookstore/internal/config"
	"bookstore/internal/domain/model"
	"bookstore/internal/handler"
	"bookstore/internal/infra/db"
	infraRepo "bookstore/internal/infra/repository"
	"bookstore/internal/logger"
	"bookstore/internal/server"
	"bookstore/internal/usecase"
	auth "bookstore/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 15 * time.Minute,
	}
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無ければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.GoEnv)
	defer logger.Log.Sync()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Log.Fatal("db connect", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Log.Fatal("db migrate", zap.Error(err))
	}

	//既定グループは起動時に冪等に作る
	groupRepo := infraRepo.NewUserGroupGormRepository(gormDB)
	if err := bootstrap.EnsureDefaultGroups(context.Background(), groupRepo); err != nil {
		logger.Log.Fatal("bootstrap groups", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	bookRepo := infraRepo.NewBookGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := newJWTIssuer(cfg.JWTSecret)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	bookUC := usecase.NewBookUsecase(bookRepo, txManager)
	cartUC := usecase.NewCartUsecase(txManager)
	orderUC := usecase.NewOrderUsecase(txManager)

	//Handler生成
	authH := handler.NewAuthHandler(registerUC, loginUC)
	bookH := handler.NewBookHandler(bookUC)
	cartH := handler.NewCartHandler(cartUC)
	orderH := handler.NewOrderHandler(orderUC)

	//Server起動
	e := server.New(cfg, authH, bookH, cartH, orderH)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	logger.Log.Info("listening", zap.String("addr", addr))
	if err := server.Start(e, addr); err != nil {
		logger.Log.Fatal("server", zap.Error(err))
	}
}
