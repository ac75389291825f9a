package aws

import (
	"context"
	"encoding/json"

	"github.com/Mapachitomamalon/CosmoFood/models"
)

// ComplaintPublisher pushes complaint events to the notification SNS topic.
type ComplaintPublisher struct {
	sns      SNSPublisher
	topicARN string
}

func NewComplaintPublisher(sns SNSPublisher, topicARN string) *ComplaintPublisher {
	return &ComplaintPublisher{sns: sns, topicARN: topicARN}
}

func (p *ComplaintPublisher) PublishComplaintEvent(ctx context.Context, event models.ComplaintEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.sns.Publish(ctx, p.topicARN, data)
}
