package repository

const (
	createJobsTableQuery = `CREATE TABLE IF NOT EXISTS generation_jobs (
		job_id           VARCHAR(32) PRIMARY KEY,
		prompt           TEXT NOT NULL,
		style            VARCHAR(50) NOT NULL,
		seed             BIGINT,
		upscale          BOOLEAN NOT NULL DEFAULT FALSE,
		num_frames       INTEGER,
		status           VARCHAR(20) NOT NULL,
		result_path      TEXT NOT NULL DEFAULT '',
		result_key       TEXT NOT NULL DEFAULT '',
		error            TEXT NOT NULL DEFAULT '',
		duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	createJobQuery = `INSERT INTO generation_jobs (job_id, prompt, style, seed, upscale, num_frames, status, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING *`
	getJobByIDQuery = `SELECT job_id, prompt, style, seed, upscale, num_frames, status, result_path, result_key, error, duration_seconds, created_at, updated_at
					FROM generation_jobs WHERE job_id = $1`
	updateJobQuery = `UPDATE generation_jobs
					SET status = COALESCE($1, status),
					    seed = COALESCE($2, seed),
					    result_path = COALESCE($3, result_path),
					    result_key = COALESCE($4, result_key),
					    error = COALESCE($5, error),
					    duration_seconds = COALESCE($6, duration_seconds),
					    updated_at = now()
					WHERE job_id = $7`
	getTotalJobsQuery = `SELECT COUNT(job_id) FROM generation_jobs`
	getJobsQuery      = `SELECT job_id, prompt, style, seed, upscale, num_frames, status, result_path, result_key, error, duration_seconds, created_at, updated_at
					FROM generation_jobs ORDER BY created_at DESC, job_id OFFSET $1 LIMIT $2`
)
