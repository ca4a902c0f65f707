package repository

import "context"

// CountMediaReferences counts surviving rows that point at path, across both
// tables and both media columns.
func (r *Queries) CountMediaReferences(ctx context.Context, path string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM questions WHERE prompt_image_path = $1 OR prompt_audio_path = $1)
		 + (SELECT COUNT(*) FROM options WHERE image_path = $1 OR audio_path = $1)`,
		path,
	).Scan(&n)
	return n, err
}
