package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bloodconnect/bloodconnect-web/internal/domain/model"
	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"github.com/bloodconnect/bloodconnect-web/internal/mocks"
	"github.com/bloodconnect/bloodconnect-web/internal/testutil"
)

func newAdminService(t *testing.T) (*AdminService, *mocks.MockAdminAPI) {
	t.Helper()
	api := mocks.NewMockAdminAPI(gomock.NewController(t))
	svc, err := NewAdminService(AdminServiceOptions{API: api})
	require.NoError(t, err)
	return svc, api
}

func requestIDs(list []model.BloodRequest) []int64 {
	out := make([]int64, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}

func TestAdminService_Overview(t *testing.T) {
	svc, api := newAdminService(t)
	api.EXPECT().PendingRequests(gomock.Any(), "tok").Return([]model.BloodRequest{{ID: 1}, {ID: 2}}, nil)

	o, err := svc.Overview(context.Background(), "sid", "tok")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, requestIDs(o.Pending))
	assert.Equal(t, 1250, o.Stats.TotalDonors)
	assert.Equal(t, 8, o.Stats.PendingApprovals)
}

func TestAdminService_ApproveAndRejectRemoveID(t *testing.T) {
	svc, api := newAdminService(t)
	api.EXPECT().PendingRequests(gomock.Any(), "tok").Return([]model.BloodRequest{{ID: 1}, {ID: 2}, {ID: 3}}, nil).Times(1)
	api.EXPECT().ApproveRequest(gomock.Any(), "tok", int64(2)).Return(nil)
	api.EXPECT().RejectRequest(gomock.Any(), "tok", int64(3)).Return(nil)

	list, res := svc.Approve(context.Background(), "sid", "tok", 2)
	require.True(t, res.OK)
	assert.Equal(t, []int64{1, 3}, requestIDs(list))

	list, res = svc.Reject(context.Background(), "sid", "tok", 3)
	require.True(t, res.OK)
	assert.Equal(t, []int64{1}, requestIDs(list))
}

func TestAdminService_PendingCacheIsBoundToToken(t *testing.T) {
	svc, api := newAdminService(t)
	api.EXPECT().PendingRequests(gomock.Any(), "tok-a").Return([]model.BloodRequest{{ID: 1}, {ID: 2}}, nil)
	api.EXPECT().PendingRequests(gomock.Any(), "tok-b").Return([]model.BloodRequest{{ID: 7}}, nil)
	api.EXPECT().ApproveRequest(gomock.Any(), "tok-b", int64(7)).Return(nil)

	_, err := svc.Overview(context.Background(), "sid", "tok-a")
	require.NoError(t, err)

	list, res := svc.Approve(context.Background(), "sid", "tok-b", 7)
	require.True(t, res.OK)
	assert.Empty(t, list)
}

func TestAdminService_ApproveFailureKeepsList(t *testing.T) {
	svc, api := newAdminService(t)
	api.EXPECT().PendingRequests(gomock.Any(), "tok").Return([]model.BloodRequest{{ID: 9}}, nil)
	api.EXPECT().ApproveRequest(gomock.Any(), "tok", int64(9)).Return(apperrors.Conflict("Request already processed"))

	list, res := svc.Approve(context.Background(), "sid", "tok", 9)
	assert.False(t, res.OK)
	assert.Equal(t, "Request already processed", res.Message)
	assert.Equal(t, []int64{9}, requestIDs(list))
}

func TestStaticStats(t *testing.T) {
	now := testutil.TestTime()
	src := StaticStats{Now: testutil.FixedTimeFunc(now)}

	stats, err := src.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.PlatformStats{
		TotalDonors: 1250, TotalHospitals: 45, TotalRequests: 320, FulfilledRequests: 285, PendingApprovals: 8,
	}, stats)

	feed, err := src.RecentActivity(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, "New donor registered: John Doe", feed[0].Description)
	assert.Equal(t, now, feed[0].Timestamp)
	assert.Equal(t, model.ActivityApproval, feed[2].Type)
	assert.Equal(t, now.Add(-2*time.Hour), feed[2].Timestamp)
	assert.Equal(t, "Admin", feed[2].User)
}

func TestAdminService_Analytics(t *testing.T) {
	svc, _ := newAdminService(t)
	stats, feed, err := svc.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 320, stats.TotalRequests)
	assert.Len(t, feed, 3)
}
