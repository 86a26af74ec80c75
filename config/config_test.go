package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inDir runs the test from dir so Load picks up the files placed there.
func inDir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	inDir(t, t.TempDir())

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", settings.HTTPAddr)
	assert.Equal(t, ":8080", settings.GatewayHTTPAddr)
	assert.Equal(t, "http://localhost:8083", settings.StatsSvcURL)
	assert.Equal(t, "csv", settings.StoreBackend)
	assert.Equal(t, "orders/orders.csv", settings.OrdersFile)
	assert.Equal(t, "assets/paynow_qr.pdf", settings.PaymentQRFile)
	assert.Equal(t, "orders", settings.OrderEventsTopic)
	assert.Equal(t, 10, settings.PendingLimit)
	assert.Zero(t, settings.StaffChatID)
	assert.ErrorIs(t, settings.Validate(), ErrMissingWebhookSecret)
}

func TestLoad_Sources(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		env   map[string]string
		check func(t *testing.T, s *Settings)
	}{
		{
			name: "environment",
			env: map[string]string{
				"WEBHOOK_SECRET": "s3cret",
				"STAFF_CHAT_ID":  "-1001234",
				"PENDING_LIMIT":  "3",
			},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "s3cret", s.WebhookSecret)
				assert.Equal(t, int64(-1001234), s.StaffChatID)
				assert.Equal(t, 3, s.PendingLimit)
				assert.NoError(t, s.Validate())
			},
		},
		{
			name: "yaml file",
			files: map[string]string{
				"config.yaml": "STORE_BACKEND: postgres\nMENU_FILE: menu.yaml\n",
			},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "postgres", s.StoreBackend)
				assert.Equal(t, "menu.yaml", s.MenuFile)
			},
		},
		{
			name: "dotenv wins over yaml",
			files: map[string]string{
				".env":        "ORDERS_FILE=data/orders.csv\n",
				"config.yaml": "ORDERS_FILE: other.csv\n",
			},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "data/orders.csv", s.OrdersFile)
			},
		},
		{
			name: "environment wins over file",
			files: map[string]string{
				".env": "HTTP_ADDR=:9000\n",
			},
			env: map[string]string{"HTTP_ADDR": ":9100"},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, ":9100", s.HTTPAddr)
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range testCase.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
			}
			for key, value := range testCase.env {
				t.Setenv(key, value)
			}
			inDir(t, dir)

			settings, err := Load()
			require.NoError(t, err)
			testCase.check(t, settings)
		})
	}
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("HTTP_ADDR: [unclosed"), 0644))
	inDir(t, dir)

	_, err := Load()
	assert.Error(t, err)
}

func TestNewKafkaWriter_KeepsKeyOnOnePartition(t *testing.T) {
	w := NewKafkaWriter(&Settings{KafkaBroker: "localhost:9092"}, "chat-outbound")
	defer w.Close()

	partitions := []int{0, 1, 2, 3, 4, 5, 6, 7}
	tests := []struct {
		name string
		key  string
	}{
		{name: "customer chat", key: "4242"},
		{name: "staff chat", key: "-1001234"},
		{name: "order id", key: "kristy_123"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			first := w.Balancer.Balance(kafka.Message{Key: []byte(testCase.key), Value: []byte("edit_text")}, partitions...)
			for i := 0; i < 5; i++ {
				got := w.Balancer.Balance(kafka.Message{Key: []byte(testCase.key), Value: []byte("send_file with a much longer body")}, partitions...)
				assert.Equal(t, first, got)
			}
		})
	}
}
