package port

import (
	"context"
	"io"

	"github.com/garyjia/jobsphere/internal/domain/entity"
)

// PipelineExporter renders an employer pipeline as a downloadable document
type PipelineExporter interface {
	ContentType() string
	Extension() string
	Export(ctx context.Context, entries []*entity.PipelineEntry, w io.Writer) error
}

// NotificationSink accepts best-effort user notifications
type NotificationSink interface {
	Notify(ctx context.Context, n *entity.Notification) error
}
