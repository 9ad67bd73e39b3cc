package trainer

import (
	"io"
	"log/slog"

	"github.com/structlearn/structlearn/pkg/mqtt"
	"github.com/structlearn/structlearn/pkg/storage"
)

type options struct {
	logger       *slog.Logger
	logWriter    io.Writer
	checkpoints  storage.Storage
	publisher    mqtt.Publisher
	publishTopic string
	runID        string
	runName      string
}

// Option customizes a trainer.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger: slog.Default(),
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLogWriter directs the textual round log to w.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) { o.logWriter = w }
}

// WithCheckpoints persists periodic state snapshots into the given storage.
func WithCheckpoints(s storage.Storage) Option {
	return func(o *options) { o.checkpoints = s }
}

// WithPublisher publishes every round evaluation to the given MQTT topic.
func WithPublisher(p mqtt.Publisher, topic string) Option {
	return func(o *options) {
		o.publisher = p
		o.publishTopic = topic
	}
}

// WithRun tags the trainer with a run ID and a human-readable name.
func WithRun(id, name string) Option {
	return func(o *options) {
		o.runID = id
		o.runName = name
	}
}
