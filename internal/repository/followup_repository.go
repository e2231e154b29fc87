package repository

import (
	"context"
	"database/sql"

	"github.com/Theodlz/skyportal/internal/models"
)

// FollowupRepository reads follow-up requests and performs the allocation
// read-access check that gates follow-up notifications per user.
type FollowupRepository interface {
	GetRequest(ctx context.Context, id int64) (*models.FollowupRequest, error)
	// AllocationReadableBy returns the allocation if the user can read it
	// (membership in the allocation's group), or nil when not visible.
	AllocationReadableBy(ctx context.Context, userID, allocationID int64) (*models.Allocation, error)
}

type followupRepository struct {
	db *sql.DB
}

func NewFollowupRepository(db *sql.DB) FollowupRepository {
	return &followupRepository{db: db}
}

func (r *followupRepository) GetRequest(ctx context.Context, id int64) (*models.FollowupRequest, error) {
	const query = `SELECT id, obj_id, status, allocation_id FROM followup_requests WHERE id = $1`
	var req models.FollowupRequest
	err := r.db.QueryRowContext(ctx, query, id).Scan(&req.ID, &req.ObjID, &req.Status, &req.AllocationID)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *followupRepository) AllocationReadableBy(ctx context.Context, userID, allocationID int64) (*models.Allocation, error) {
	const query = `
		SELECT a.id, a.group_id
		FROM allocations a
		JOIN group_users gu ON gu.group_id = a.group_id
		WHERE a.id = $1 AND gu.user_id = $2
	`
	var alloc models.Allocation
	err := r.db.QueryRowContext(ctx, query, allocationID, userID).Scan(&alloc.ID, &alloc.GroupID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}
