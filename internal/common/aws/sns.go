// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"inverter-savings/internal/common/logger"
	"inverter-savings/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the part of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client SNSAPI
}

func NewSNSClient(ctx context.Context, region string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSClient{client: sns.NewFromConfig(cfg)}, nil
}

// NewSNSClientWithAPI wraps an existing client, mostly for tests.
func NewSNSClientWithAPI(api SNSAPI) *SNSClient {
	return &SNSClient{client: api}
}

func (s *SNSClient) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	return s.client.Publish(ctx, input)
}

// SalesAlert is the message body sent to the sales topic.
type SalesAlert struct {
	LeadID         string  `json:"leadId"`
	Company        string  `json:"company"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Score          int     `json:"score"`
	Priority       string  `json:"priority"`
	YearlySavings  float64 `json:"yearlySavings"`
	ACUnits        int     `json:"acUnits"`
	OfficeSizeSqFt int     `json:"officeSizeSqFt"`
}

// maxSubjectLen is the SNS limit for email subjects.
const maxSubjectLen = 100

// alertSubject names the company in a subject SNS accepts: printable ASCII,
// one line, at most maxSubjectLen characters.
func alertSubject(company string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return ' '
		}
		return r
	}, company)
	subject := "High priority lead: " + strings.Join(strings.Fields(clean), " ")
	if len(subject) > maxSubjectLen {
		subject = strings.TrimSpace(subject[:maxSubjectLen])
	}
	return subject
}

// SalesAlerter tells the sales team about HIGH priority leads.
type SalesAlerter struct {
	sns      *SNSClient
	topicARN string
	logger   logger.Logger
}

func NewSalesAlerter(client *SNSClient, topicARN string, log logger.Logger) *SalesAlerter {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &SalesAlerter{sns: client, topicARN: topicARN, logger: log}
}

// NotifyIfHot publishes an alert when the record is HIGH priority. It reports
// whether a message was sent.
func (a *SalesAlerter) NotifyIfHot(ctx context.Context, record *models.LeadRecord) (bool, error) {
	if a == nil || record == nil || record.Priority != models.PriorityHigh {
		return false, nil
	}

	body, err := json.Marshal(SalesAlert{
		LeadID:         record.LeadID,
		Company:        record.Contact.CompanyName,
		Email:          record.Contact.Email,
		Phone:          record.Contact.Phone,
		Score:          record.Score,
		Priority:       string(record.Priority),
		YearlySavings:  record.Savings.YearlySavings,
		ACUnits:        record.Input.ACUnitCount,
		OfficeSizeSqFt: record.Contact.OfficeSizeSqFt,
	})
	if err != nil {
		return false, fmt.Errorf("marshal sales alert: %w", err)
	}

	out, err := a.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(a.topicARN),
		Subject:  aws.String(alertSubject(record.Contact.CompanyName)),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"priority": {DataType: aws.String("String"), StringValue: aws.String(string(record.Priority))},
			"leadId":   {DataType: aws.String("String"), StringValue: aws.String(record.LeadID)},
		},
	})
	if err != nil {
		return false, fmt.Errorf("publish sales alert: %w", err)
	}

	a.logger.Info("sales alert published", map[string]interface{}{
		"leadId":    record.LeadID,
		"messageId": aws.ToString(out.MessageId),
	})
	return true, nil
}
