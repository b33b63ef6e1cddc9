package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/icodeforyou/elpris-go/analysis"
	"github.com/icodeforyou/elpris-go/report"
	"github.com/icodeforyou/elpris-go/types"
)

const publishTimeout = 5 * time.Second

type client interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload any) paho.Token
}

// CheapestWindowMessage is the retained payload of a cheapest window topic.
type CheapestWindowMessage struct {
	Zone        string    `json:"zone"`
	Length      int       `json:"length"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AverageCost float64   `json:"averageCost"` // SEK/kWh
	TotalCost   float64   `json:"totalCost"`
	PublishedAt time.Time `json:"publishedAt"`
}

type Publisher struct {
	client client
	prefix string
	logger *slog.Logger
}

func New(host string, port int16, username, password, topicPrefix string) *Publisher {
	logger := slog.Default().With(slog.String("module", "mqtt"))

	opts := paho.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", host, port))
	opts.SetClientID(fmt.Sprintf("elpris-%d", time.Now().Unix()))
	opts.SetUsername(username)
	opts.SetPassword(password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client paho.Client) {
		logger.Info("MQTT connected")
	}
	opts.OnConnectionLost = func(client paho.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	installLoggers(logger)

	return newPublisher(paho.NewClient(opts), topicPrefix, logger)
}

func newPublisher(c client, topicPrefix string, logger *slog.Logger) *Publisher {
	return &Publisher{client: c, prefix: topicPrefix, logger: logger}
}

func (p *Publisher) Connect() error {
	p.logger.Debug("connecting MQTT client")
	token := p.client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timeout when connecting to MQTT broker")
	}
	return token.Error()
}

func (p *Publisher) Disconnect() {
	p.logger.Info("disconnecting MQTT client")
	p.client.Disconnect(250)
}

// Topic is where the cheapest window of n hours in zone is published.
func (p *Publisher) Topic(zone types.Zone, n int) string {
	return fmt.Sprintf("%s/%s/cheapest/%dh", p.prefix, zone, n)
}

// PublishWindows publishes every computed window of res as a retained
// message. Windows that failed are skipped.
func (p *Publisher) PublishWindows(zone types.Zone, res analysis.Result) error {
	now := time.Now()
	for _, n := range res.Lengths {
		o := res.Windows[n]
		w, ok := o.Window.Get()
		if !ok {
			p.logger.Warn("not publishing window", slog.Int("length", n), slog.String("reason", report.WindowErrorText(o.Err)))
			continue
		}

		payload, err := json.Marshal(CheapestWindowMessage{
			Zone:        zone.String(),
			Length:      n,
			Start:       w.Start,
			End:         w.End,
			AverageCost: w.AverageCost,
			TotalCost:   w.TotalCost,
			PublishedAt: now,
		})
		if err != nil {
			return fmt.Errorf("encoding cheapest window: %w", err)
		}

		topic := p.Topic(zone, n)
		token := p.client.Publish(topic, 1, true, payload)
		if !token.WaitTimeout(publishTimeout) {
			return fmt.Errorf("timeout when publishing to %s", topic)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("error when publishing to %s: %w", topic, err)
		}
		p.logger.Debug("published cheapest window", slog.String("topic", topic))
	}
	return nil
}
