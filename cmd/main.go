package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leonelquinteros/gotext"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"

	"ratecard-telegram-bot/config"
	"ratecard-telegram-bot/internal/database"
	"ratecard-telegram-bot/internal/telegram"
)

type BotMetrics struct {
	CommandsProcessed    prometheus.Counter
	MessagesHandled      prometheus.Counter
	InlineQueriesHandled prometheus.Counter
	CallbacksHandled     prometheus.Counter
	MessagesPerChannel   *prometheus.CounterVec
	Mutex                sync.Mutex
}

var (
	metrics = NewBotMetrics()
)

func init() {
	config.InitConfig()
	setupLogging()
}

func NewBotMetrics() *BotMetrics {
	metrics := &BotMetrics{
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratecard",
			Subsystem: "telegram_bot",
			Name:      "commands_processed",
			Help:      "The total number of processed commands",
		}),
		MessagesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratecard",
			Subsystem: "telegram_bot",
			Name:      "messages_handled",
			Help:      "The total number of handled messages",
		}),
		InlineQueriesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratecard",
			Subsystem: "telegram_bot",
			Name:      "inline_queries_handled",
			Help:      "The total number of handled inline queries",
		}),
		CallbacksHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratecard",
			Subsystem: "telegram_bot",
			Name:      "callbacks_handled",
			Help:      "The total number of handled callback queries",
		}),
		MessagesPerChannel: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ratecard",
				Subsystem: "telegram_bot",
				Name:      "messages_per_channel",
				Help:      "The total number of messages handled per channel",
			},
			[]string{"chat_id", "chat_name"},
		),
	}

	prometheus.MustRegister(metrics.CommandsProcessed)
	prometheus.MustRegister(metrics.MessagesHandled)
	prometheus.MustRegister(metrics.InlineQueriesHandled)
	prometheus.MustRegister(metrics.CallbacksHandled)
	prometheus.MustRegister(metrics.MessagesPerChannel)

	return metrics
}

func main() {
	gotext.Configure("locales", strings.ToLower(config.GetString("lang")), "default")

	err := database.InitDB(config.GetString("db_path"))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	LoadMetricsFromDB()

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:           config.GetString("telegram_bot_token"),
		Debug:           config.GetBool("debug"),
		UpdatesTimeout:  60,
		StorageChatID:   config.GetInt64("storage_chat_id"),
		RendererBaseURL: config.GetString("renderer_base_url"),
	})

	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	if config.GetInt64("storage_chat_id") == 0 {
		log.Warn("STORAGE_CHAT_ID is not set, inline results will be empty")
	}

	updates, err := bot.GetUpdatesChannel()
	if err != nil {
		log.Fatalf("Failed to get updates channel: %v", err)
	}

	go handleUpdates(bot, updates)

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			SaveMetricsToDB()
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		SaveMetricsToDB()
		log.Println("Metrics saved, shutting down...")
		os.Exit(0)
	}()

	if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting telegram bot...")
}

// handleUpdates fans each update out to its own goroutine: Telegram makes no
// ordering promises between users and the handlers share nothing mutable.
func handleUpdates(bot *telegram.Bot, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if log.IsLevelEnabled(log.DebugLevel) {
			log.Debug(spew.Sdump(update))
		}

		switch {
		case update.CallbackQuery != nil:
			metrics.CallbacksHandled.Inc()
			callback := update.CallbackQuery
			go recoverable(func() { bot.HandleCallbackQuery(callback) })

		case update.InlineQuery != nil:
			metrics.InlineQueriesHandled.Inc()
			inline := update.InlineQuery
			go recoverable(func() { bot.HandleInlineQuery(inline) })

		case update.Message != nil && update.Message.IsCommand():
			metrics.MessagesHandled.Inc()

			chatID := update.Message.Chat.ID
			chatName := update.Message.Chat.Title
			if chatName == "" {
				chatName = fmt.Sprintf("%s-%d", "PrivateChat", chatID)
			}

			metrics.MessagesPerChannel.WithLabelValues(
				fmt.Sprintf("%d", chatID), chatName,
			).Inc()

			u := update
			go recoverable(func() { handleCommand(bot, u) })

		default:
			log.Debug("Received non-command update")
		}
	}
}

// recoverable keeps a panicking handler from taking down the dispatch loop.
func recoverable(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()
	handler()
}

func handleCommand(bot *telegram.Bot, update tgbotapi.Update) {
	text := bot.HandleUpdate(update)
	if text == "" {
		metrics.CommandsProcessed.Inc()
		return
	}

	err := bot.SendMessage(telegram.Message{
		ChatID:    int(update.Message.Chat.ID),
		Text:      text,
		MessageID: update.Message.MessageID,
	})

	if err != nil {
		log.Errorf("Failed to send message: %v", err)
	} else {
		metrics.CommandsProcessed.Inc()
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}

func LoadMetricsFromDB() {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	commandsProcessed, _ := database.GetMetric("commands_processed")
	messagesHandled, _ := database.GetMetric("messages_handled")
	inlineQueries, _ := database.GetMetric("inline_queries_handled")
	callbacks, _ := database.GetMetric("callbacks_handled")

	metrics.CommandsProcessed.Add(commandsProcessed)
	metrics.MessagesHandled.Add(messagesHandled)
	metrics.InlineQueriesHandled.Add(inlineQueries)
	metrics.CallbacksHandled.Add(callbacks)

	perChannel, _ := database.GetMetricsWithLabels("messages_per_channel")
	for chatID, chatNames := range perChannel {
		for chatName, value := range chatNames {
			metrics.MessagesPerChannel.WithLabelValues(chatID, chatName).Add(value)
		}
	}

	log.Println("Metrics loaded from database.")
}

func SaveMetricsToDB() {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	database.SaveMetric("commands_processed", GetMetricValue(metrics.CommandsProcessed))
	database.SaveMetric("messages_handled", GetMetricValue(metrics.MessagesHandled))
	database.SaveMetric("inline_queries_handled", GetMetricValue(metrics.InlineQueriesHandled))
	database.SaveMetric("callbacks_handled", GetMetricValue(metrics.CallbacksHandled))

	metricChan := make(chan prometheus.Metric, 1)
	go func() {
		metrics.MessagesPerChannel.Collect(metricChan)
		close(metricChan)
	}()

	for metric := range metricChan {
		metricProto := &dto.Metric{}
		if err := metric.Write(metricProto); err != nil {
			log.Printf("Failed to read MessagesPerChannel metric: %v", err)
			continue
		}
		var chatID, chatName string
		for _, label := range metricProto.Label {
			if label.GetName() == "chat_id" {
				chatID = label.GetValue()
			}
			if label.GetName() == "chat_name" {
				chatName = label.GetValue()
			}
		}
		database.SaveMetricWithLabels("messages_per_channel", chatID, chatName, metricProto.Counter.GetValue())
	}

	log.Println("Metrics saved to database.")
}

func GetMetricValue(metric prometheus.Collector) float64 {
	var metricValue float64
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Printf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		metricValue = metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		metricValue = metricProto.Gauge.GetValue()
	}
	return metricValue
}
