package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// outputSink receives migration tool output for operator diagnosis.
type outputSink interface {
	Publish(ctx context.Context, requestID, output string) error
}

// logsAPI is the subset of the CloudWatch Logs client used by logsSink.
type logsAPI interface {
	CreateLogStream(ctx context.Context, params *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, params *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// logsSink writes tool output to one CloudWatch Logs stream per lifecycle
// request.
type logsSink struct {
	api   logsAPI
	group string
}

func newLogsSink(cfg aws.Config, group string) *logsSink {
	return &logsSink{api: cloudwatchlogs.NewFromConfig(cfg), group: group}
}

// Publish implements outputSink.
func (s *logsSink) Publish(ctx context.Context, requestID, output string) error {
	stream := "migration-" + requestID

	_, err := s.api.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(s.group),
		LogStreamName: aws.String(stream),
	})
	if err != nil {
		var exists *cwtypes.ResourceAlreadyExistsException
		if !errors.As(err, &exists) {
			return fmt.Errorf("create log stream %s: %w", stream, err)
		}
	}

	_, err = s.api.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(s.group),
		LogStreamName: aws.String(stream),
		LogEvents: []cwtypes.InputLogEvent{
			{
				Message:   aws.String(output),
				Timestamp: aws.Int64(time.Now().UnixMilli()),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put log events to %s: %w", stream, err)
	}
	return nil
}
