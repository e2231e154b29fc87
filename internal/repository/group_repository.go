package repository

import (
	"context"
	"database/sql"

	"github.com/Theodlz/skyportal/internal/models"
)

// GroupRepository reads group admission requests along with the requesting
// user's name and the group's name for message rendering.
type GroupRepository interface {
	GetAdmissionRequest(ctx context.Context, id int64) (*models.GroupAdmissionRequest, error)
}

type groupRepository struct {
	db *sql.DB
}

func NewGroupRepository(db *sql.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetAdmissionRequest(ctx context.Context, id int64) (*models.GroupAdmissionRequest, error) {
	const query = `
		SELECT gar.id, gar.group_id, u.username, g.name
		FROM group_admission_requests gar
		JOIN users u ON u.id = gar.user_id
		JOIN groups g ON g.id = gar.group_id
		WHERE gar.id = $1
	`
	var req models.GroupAdmissionRequest
	err := r.db.QueryRowContext(ctx, query, id).Scan(&req.ID, &req.GroupID, &req.Username, &req.GroupName)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
