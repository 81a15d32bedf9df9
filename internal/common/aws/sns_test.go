package aws

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"inverter-savings/internal/common/logger"
	"inverter-savings/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if out, ok := args.Get(0).(*sns.PublishOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func hotRecord() *models.LeadRecord {
	return &models.LeadRecord{
		LeadID:   "LEAD-1709285400000-ABCDEF123",
		Contact:  models.ContactInfo{CompanyName: "Acme Holdings", OfficeSizeSqFt: 12000, Email: "cfo@acme.com", Phone: "+94771234567"},
		Input:    models.CalculationInput{ACUnitCount: 25},
		Savings:  models.SavingsResult{YearlySavings: 1200000},
		Score:    100,
		Priority: models.PriorityHigh,
	}
}

func TestSalesAlerter_PublishesHighPriority(t *testing.T) {
	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		var alert SalesAlert
		if err := json.Unmarshal([]byte(aws.ToString(in.Message)), &alert); err != nil {
			return false
		}
		return aws.ToString(in.TopicArn) == "arn:aws:sns:ap-south-1:123:sales" &&
			alert.LeadID == "LEAD-1709285400000-ABCDEF123" &&
			alert.YearlySavings == 1200000 &&
			aws.ToString(in.MessageAttributes["priority"].StringValue) == "HIGH"
	})).Return(&sns.PublishOutput{MessageId: aws.String("m-1")}, nil).Once()

	alerter := NewSalesAlerter(NewSNSClientWithAPI(api), "arn:aws:sns:ap-south-1:123:sales", logger.NewTestLogger(t))
	sent, err := alerter.NotifyIfHot(context.Background(), hotRecord())

	require.NoError(t, err)
	assert.True(t, sent)
	api.AssertExpectations(t)
}

func TestAlertSubject(t *testing.T) {
	tests := []struct {
		name    string
		company string
		want    string
	}{
		{"plain", "Acme Holdings", "High priority lead: Acme Holdings"},
		{"newlines", "Acme\nHoldings\r\n", "High priority lead: Acme Holdings"},
		{"non ascii", "Lanka Café", "High priority lead: Lanka Caf"},
		{"long", strings.Repeat("Colombo Trading ", 12), "High priority lead: " + strings.TrimSpace(strings.Repeat("Colombo Trading ", 12)[:80])},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alertSubject(tt.company)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxSubjectLen)
		})
	}
}

func TestSalesAlerter_LongCompanyName(t *testing.T) {
	record := hotRecord()
	record.Contact.CompanyName = strings.Repeat("A", 300)

	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return len(aws.ToString(in.Subject)) <= 100
	})).Return(&sns.PublishOutput{MessageId: aws.String("m-2")}, nil).Once()

	alerter := NewSalesAlerter(NewSNSClientWithAPI(api), "arn:aws:sns:ap-south-1:123:sales", nil)
	sent, err := alerter.NotifyIfHot(context.Background(), record)

	require.NoError(t, err)
	assert.True(t, sent)
	api.AssertExpectations(t)
}

func TestSalesAlerter_SkipsOtherPriorities(t *testing.T) {
	api := new(mockSNS)
	alerter := NewSalesAlerter(NewSNSClientWithAPI(api), "arn", nil)

	record := hotRecord()
	record.Priority = models.PriorityMedium

	sent, err := alerter.NotifyIfHot(context.Background(), record)
	require.NoError(t, err)
	assert.False(t, sent)
	api.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSalesAlerter_NilIsNoop(t *testing.T) {
	var alerter *SalesAlerter
	sent, err := alerter.NotifyIfHot(context.Background(), hotRecord())
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestSalesAlerter_PublishError(t *testing.T) {
	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	alerter := NewSalesAlerter(NewSNSClientWithAPI(api), "arn", nil)
	sent, err := alerter.NotifyIfHot(context.Background(), hotRecord())

	assert.False(t, sent)
	assert.ErrorContains(t, err, "throttled")
}
