package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Publisher mints reusable photo file IDs. Telegram only hands out a file ID
// in response to an actual upload, so the publisher sends the artifact to a
// storage chat, keeps the file ID of the confirmed photo and deletes the
// transient message. The storage chat is a mint mechanism, not storage.
type Publisher struct {
	api    botAPI
	chatID int64
}

// NewPublisher creates a publisher bound to the storage chat.
func NewPublisher(api botAPI, chatID int64) *Publisher {
	return &Publisher{api: api, chatID: chatID}
}

// Publish uploads the artifact and returns the file ID of its largest photo
// size. No file ID is ever returned for an unconfirmed upload. The cleanup
// delete is best effort: its failure is logged and swallowed, the file ID
// already minted stays valid either way. Callers must not treat a missing
// transient message as a problem.
func (p *Publisher) Publish(a Artifact) (string, error) {
	photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FileBytes{
		Name:  "rate.png",
		Bytes: a.Image,
	})
	photo.Caption = a.Caption

	msg, err := p.api.Send(photo)
	if err != nil {
		return "", errors.Wrap(err, "could not upload photo to storage chat")
	}
	if len(msg.Photo) == 0 {
		return "", errors.New("storage chat confirmed no photo attachment")
	}

	fileID := largestPhoto(msg.Photo).FileID

	chatID := p.chatID
	if msg.Chat != nil {
		chatID = msg.Chat.ID
	}
	if _, err := p.api.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
		log.Warnf("could not delete transient storage message %d: %v", msg.MessageID, err)
	}

	return fileID, nil
}

// largestPhoto picks the highest-resolution variant. Telegram sends sizes
// in ascending order, the area comparison just avoids relying on that.
func largestPhoto(sizes []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	best := sizes[0]
	for _, size := range sizes[1:] {
		if size.Width*size.Height > best.Width*best.Height {
			best = size
		}
	}
	return best
}
