package repository

import (
	"context"
	"database/sql"

	"github.com/Theodlz/skyportal/internal/models"
)

// SourceRepository reads the per-object activity records that drive
// favorite-source and source notifications.
type SourceRepository interface {
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	GetClassification(ctx context.Context, id int64) (*models.Classification, error)
	GetSpectrum(ctx context.Context, id int64) (*models.Spectrum, error)
}

type sourceRepository struct {
	db *sql.DB
}

func NewSourceRepository(db *sql.DB) SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	const query = `SELECT id, obj_id, bot FROM comments WHERE id = $1`
	var comment models.Comment
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&comment.ID, &comment.ObjID, &comment.Bot); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *sourceRepository) GetClassification(ctx context.Context, id int64) (*models.Classification, error) {
	const query = `SELECT id, obj_id FROM classifications WHERE id = $1`
	var classification models.Classification
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&classification.ID, &classification.ObjID); err != nil {
		return nil, err
	}
	return &classification, nil
}

func (r *sourceRepository) GetSpectrum(ctx context.Context, id int64) (*models.Spectrum, error) {
	const query = `SELECT id, obj_id FROM spectra WHERE id = $1`
	var spectrum models.Spectrum
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&spectrum.ID, &spectrum.ObjID); err != nil {
		return nil, err
	}
	return &spectrum, nil
}
