package lag

import (
	"context"

	"github.com/twmb/franz-go/pkg/kadm"
)

// AdminClient is the subset of the franz-go admin client that lag queries require. *kadm.Client implements it.
type AdminClient interface {
	ListGroups(ctx context.Context, filterStates ...string) (kadm.ListedGroups, error)
	DescribeGroups(ctx context.Context, groups ...string) (kadm.DescribedGroups, error)
	FetchOffsets(ctx context.Context, group string) (kadm.OffsetResponses, error)
	ListEndOffsets(ctx context.Context, topics ...string) (kadm.ListedOffsets, error)
}

var _ AdminClient = (*kadm.Client)(nil)
