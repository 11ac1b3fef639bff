package db

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                   UUID PRIMARY KEY,
	started_at           TIMESTAMPTZ NOT NULL,
	finished_at          TIMESTAMPTZ NOT NULL,
	input_path           TEXT NOT NULL,
	output_path          TEXT NOT NULL,
	provider             TEXT NOT NULL,
	rows_loaded          INT NOT NULL,
	countries_aggregated INT NOT NULL,
	countries_plotted    INT NOT NULL,
	lookup_attempts      INT NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS run_countries (
	run_id       UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	iso3         CHAR(3) NOT NULL,
	country      TEXT NOT NULL,
	mean_valence DOUBLE PRECISION NOT NULL,
	track        TEXT NOT NULL,
	artists      TEXT NOT NULL,
	preview_url  TEXT NOT NULL,
	link         TEXT,
	mood_band    TEXT,
	PRIMARY KEY (run_id, iso3)
);
`
