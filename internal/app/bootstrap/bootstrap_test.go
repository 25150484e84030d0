package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/luxe-salon/internal/booking"
	appconfig "github.com/wolfman30/luxe-salon/internal/config"
	"github.com/wolfman30/luxe-salon/internal/notify"
	"github.com/wolfman30/luxe-salon/pkg/logging"
)

func TestBuildRedisClientDisabled(t *testing.T) {
	assert.Nil(t, BuildRedisClient(context.Background(), nil, nil, false))
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: " "}, nil, false))
}

func TestBuildRedisClientVerify(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: addr}, logging.New("error"), true)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	mr.Close()
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: addr}, logging.New("error"), true))
}

func TestBuildSessionStore(t *testing.T) {
	ctx := context.Background()
	logger := logging.New("error")

	store, mem, err := BuildSessionStore(ctx, &appconfig.Config{SessionStore: StoreMemory, SessionTTL: time.Hour}, logger)
	require.NoError(t, err)
	assert.NotNil(t, mem)
	assert.Same(t, mem, store)

	mr := miniredis.RunT(t)
	store, mem, err = BuildSessionStore(ctx, &appconfig.Config{SessionStore: StoreRedis, RedisAddr: mr.Addr(), SessionTTL: time.Hour}, logger)
	require.NoError(t, err)
	assert.Nil(t, mem)
	assert.IsType(t, &booking.RedisSessionStore{}, store)

	_, _, err = BuildSessionStore(ctx, &appconfig.Config{SessionStore: "postgres"}, logger)
	assert.Error(t, err)

	_, _, err = BuildSessionStore(ctx, nil, logger)
	assert.Error(t, err)
}

func TestBuildSessionStoreRedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, _, err := BuildSessionStore(context.Background(), &appconfig.Config{SessionStore: StoreRedis, RedisAddr: addr}, logging.New("error"))
	assert.ErrorContains(t, err, "unavailable")
}

func TestBuildSalonOverrides(t *testing.T) {
	salon := BuildSalon(&appconfig.Config{SalonName: "Luxe Salon SoHo", SalonPhone: " "})
	assert.Equal(t, "Luxe Salon SoHo", salon.Name)
	assert.Equal(t, "+1 (555) 123-4567", salon.Phone)
	assert.Equal(t, "info@luxesalon.com", BuildSalon(nil).Email)
}

func TestBuildScheduleRules(t *testing.T) {
	rules, err := BuildScheduleRules(&appconfig.Config{SalonTimezone: "America/New_York"})
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", rules.Location.String())

	rules, err = BuildScheduleRules(nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, rules.Location)

	_, err = BuildScheduleRules(&appconfig.Config{SalonTimezone: "Mars/Olympus"})
	assert.Error(t, err)
}

func TestBuildConfirmationDispatcher(t *testing.T) {
	logger := logging.New("error")
	salon := BuildSalon(nil)

	dispatcher, err := BuildConfirmationDispatcher(&appconfig.Config{NotifyTimeout: time.Second}, nil, salon, nil, logger)
	require.NoError(t, err)
	assert.NotNil(t, dispatcher)

	_, err = BuildConfirmationDispatcher(&appconfig.Config{NotifyTransport: notify.TransportSendGrid}, nil, salon, nil, logger)
	assert.ErrorContains(t, err, "SENDGRID_API_KEY")

	_, err = BuildConfirmationDispatcher(&appconfig.Config{NotifyTransport: notify.TransportSQS, NotifyQueueURL: "http://localhost:4566/queue/confirmations"}, nil, salon, nil, logger)
	assert.Error(t, err, "sqs needs an aws config")

	awsCfg := aws.Config{Region: "us-east-1"}
	dispatcher, err = BuildConfirmationDispatcher(&appconfig.Config{NotifyTransport: notify.TransportSQS, NotifyQueueURL: "http://localhost:4566/queue/confirmations"}, &awsCfg, salon, nil, logger)
	require.NoError(t, err)
	assert.NotNil(t, dispatcher)

	_, err = BuildConfirmationDispatcher(&appconfig.Config{NotifyTransport: "pigeon"}, nil, salon, nil, logger)
	assert.True(t, errors.Is(err, notify.ErrUnknownTransport))
}

func TestBuildContactSender(t *testing.T) {
	logger := logging.New("error")
	salon := BuildSalon(nil)

	assert.IsType(t, &notify.StubEmailSender{}, BuildContactSender(nil, nil, salon, logger))
	assert.IsType(t, &notify.StubEmailSender{}, BuildContactSender(&appconfig.Config{NotifyTransport: notify.TransportSQS}, nil, salon, logger))
	assert.IsType(t, &notify.SendGridSender{}, BuildContactSender(&appconfig.Config{NotifyTransport: notify.TransportSendGrid, SendGridAPIKey: "SG.test"}, nil, salon, logger))

	awsCfg := aws.Config{Region: "us-east-1"}
	assert.IsType(t, &notify.SESSender{}, BuildContactSender(&appconfig.Config{NotifyTransport: notify.TransportSES, SESFromEmail: "booking@luxesalon.com"}, &awsCfg, salon, logger))
}

func TestBuildArchive(t *testing.T) {
	assert.False(t, BuildArchive(&appconfig.Config{}, nil, nil).Enabled())

	awsCfg := aws.Config{Region: "us-east-1"}
	assert.True(t, BuildArchive(&appconfig.Config{ConfirmationBucket: "luxe-confirmations"}, &awsCfg, nil).Enabled())
}
