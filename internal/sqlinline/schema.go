package sqlinline

// QEnsureSchema bootstraps the relational schema. The unique constraint on
// assets.content_hash is the sole concurrency guard against duplicate
// ingestion; (asset_id, preset) guards concurrent rendition inserts.
const QEnsureSchema = `--sql 45daa483-19a1-4f36-bdbe-617fe0b2b4cb
create table if not exists tenants (
  id bigint generated always as identity primary key,
  name text not null unique,
  created_at timestamptz not null default now()
);

create table if not exists assets (
  id bigint generated always as identity primary key,
  tenant_id bigint not null references tenants(id),
  filename text not null,
  content_hash char(64) not null unique,
  perceptual_hash char(16) not null,
  original_bytes bigint not null,
  width int not null,
  height int not null,
  color_space text,
  storage_key text not null,
  created_at timestamptz not null default now()
);
create index if not exists idx_assets_tenant on assets(tenant_id);
create index if not exists idx_assets_phash on assets(perceptual_hash);

-- renditions carry no FK to assets: an asset deleted by an operator leaves
-- its rendition rows and files behind for the purge sweep to collect.
create table if not exists renditions (
  id bigint generated always as identity primary key,
  asset_id bigint not null,
  preset text not null,
  file_path text not null unique,
  bytes bigint not null,
  width int not null,
  height int not null,
  quality int,
  color_space text,
  created_at timestamptz not null default now(),
  unique (asset_id, preset)
);
create index if not exists idx_renditions_asset on renditions(asset_id);

create table if not exists jobs (
  id bigint generated always as identity primary key,
  asset_id bigint not null references assets(id) on delete cascade,
  status text not null default 'pending',
  retry_count int not null default 0,
  max_retries int not null default 3,
  error_message text,
  not_before timestamptz not null default now(),
  created_at timestamptz not null default now(),
  updated_at timestamptz not null default now()
);
create index if not exists idx_jobs_status on jobs(status, not_before, created_at);

create table if not exists poison_jobs (
  id bigint generated always as identity primary key,
  asset_id bigint not null,
  original_job_id bigint,
  error_message text not null,
  retry_count int not null,
  failed_at timestamptz not null default now()
);
`
