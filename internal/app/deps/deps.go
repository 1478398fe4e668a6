package deps

import (
	"context"
	"recoverable/internal/config"
	dl "recoverable/internal/core/domain/logging"
	"recoverable/internal/core/domain/recovery"
	"recoverable/internal/core/domain/user"
	"recoverable/internal/db"
	dbuser "recoverable/internal/db/user"
	dateutil "recoverable/internal/implementations/date_util"
	"recoverable/internal/implementations/email"
	"recoverable/internal/implementations/logging"
	"recoverable/internal/implementations/passcode"
	passwordhasher "recoverable/internal/implementations/password_hasher"
	"recoverable/internal/implementations/tokenizer"
	"recoverable/internal/rabbitmq"
	recoveryinstructions "recoverable/internal/rabbitmq/publishers/recovery_instructions"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB       *pgxpool.Pool
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UserRepository user.Repository

	RecoveryOptions            user.RecoveryOptions
	EmailSender                *email.EmailSender
	RecoveryInstructionsSender user.RecoveryInstructionsSender
	PasswordHasher             user.PasswordHasher
	PasscodeGenerator          user.PasscodeGenerator
	TokenizerFactory           recovery.TokenizerFactory
	DateUtil                   recovery.DateUtil
}

// InitDeps prepares everything the HTTP API needs.
func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.RecoveryOptions = deps.Config.RecoveryOptions()
	deps.EmailSender = deps.newEmailSender(deps.RecoveryOptions.TokenType)
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.PasscodeGenerator = passcode.NewGenerator()
	deps.TokenizerFactory = tokenizer.NewHMACFactory(deps.Config.Secret)
	deps.DateUtil = dateutil.NewCarbon()

	closeRabbitmq := func() {}
	if deps.Config.UsesRabbitmq() {
		closeRabbitmq = deps.initRabbitmqConnection()
		deps.RecoveryInstructionsSender = deps.initRabbitmqPublisher()
	} else {
		deps.RecoveryInstructionsSender = deps.EmailSender
	}

	deps.Logger.Info(
		context.Background(),
		"Dependencies have been initialized.",
		dl.Entry("tokenType", deps.RecoveryOptions.TokenType),
		dl.Entry("tokenLifeSpanDays", deps.RecoveryOptions.TokenLifeSpanDays),
		dl.Entry("rabbitmq", deps.Config.UsesRabbitmq()),
	)

	return deps, closeAll(closeRabbitmq, closePgxPool, closeLogger)
}

// InitMailerDeps prepares the RabbitMQ connection and the SES sender, the
// mailer does not touch the database.
func InitMailerDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initMailerConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	if !deps.Config.UsesRabbitmq() {
		panic("RABBITMQ_URL must be set.")
	}
	closeRabbitmq := deps.initRabbitmqConnection()

	deps.Now = func() time.Time { return time.Now().UTC() }
	// Every message carries its own token type.
	deps.EmailSender = deps.newEmailSender(user.TokenTypeEncrypted)

	return deps, closeAll(closeRabbitmq, closeLogger)
}

func closeAll(closeFuncs ...func()) func() {
	return func() {
		// The logger goes last, the others log while closing.
		last := len(closeFuncs) - 1
		var wg sync.WaitGroup
		wg.Add(last)
		for _, closeFunc := range closeFuncs[:last] {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}
		wg.Wait()
		closeFuncs[last]()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initMailerConfig() {
	mailer, err := config.LoadMailer()
	if err != nil {
		panic(err)
	}
	deps.Config = &config.Config{Mailer: *mailer}
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AWSRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AWSAccessKey,
				deps.Config.AWSSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.IsTestMode)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	ctx := context.Background()
	err := db.ApplyMigrations(deps.Config.MigrationsPath, deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(ctx, "Could not apply DB migrations.", dl.Entry("err", err))
		panic(err)
	}

	pool, err := pgxpool.Connect(ctx, deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(ctx, "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = pool
	return func() {
		deps.Logger.Info(ctx, "Shutting down DB connection.")
		pool.Close()
		deps.Logger.Info(ctx, "DB connection shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

// The publisher channel is closed together with the connection.
func (deps *Deps) initRabbitmqPublisher() user.RecoveryInstructionsSender {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	if err := rabbitmqChannel.DeclareQueue(deps.Config.RabbitmqRecoveryQueue); err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}
	return recoveryinstructions.NewRabbitMQ(
		deps.Logger,
		rabbitmqChannel,
		deps.Config.RabbitmqRecoveryQueue,
		deps.RecoveryOptions.TokenType,
	)
}

func (deps *Deps) newEmailSender(tokenType user.TokenType) *email.EmailSender {
	return email.NewEmailSender(
		deps.AwsConfig,
		deps.Config.EmailSender,
		deps.Config.EmailRecoveryTemplate,
		deps.Config.RecoveryBaseURL,
		tokenType,
	)
}
