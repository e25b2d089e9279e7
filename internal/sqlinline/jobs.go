package sqlinline

const QInsertJob = `--sql f8c61733-ca79-478b-bc4d-aabcbe6f883d
insert into jobs (asset_id, status, retry_count, max_retries)
values ($1::bigint, 'pending', 0, $2::int)
returning id;
`

// QClaimJobByID is the conditional pending->processing transition used when a
// job id arrives via the notification backend. The status predicate makes the
// claim atomic: a second worker racing on the same id updates zero rows.
// There is no reclaim path for rows stuck in 'processing' after a crash.
const QClaimJobByID = `--sql a290fd96-3adc-477f-9262-db391a7bd17e
update jobs
set status = 'processing', updated_at = now()
where id = $1::bigint
  and status = 'pending'
  and not_before <= now()
returning id, asset_id, status, retry_count, max_retries,
          coalesce(error_message, ''), not_before, created_at, updated_at;
`

// QSelectOldestPendingJob backs the DB-poll queue. It only surfaces a
// candidate id; ownership is still taken through QClaimJobByID, so two
// pollers returning the same row resolve to a single claim.
const QSelectOldestPendingJob = `--sql b864626f-a450-43d7-af95-8de55c744555
select id
from jobs
where status = 'pending'
  and not_before <= now()
order by created_at asc
limit 1;
`

const QSelectJobByID = `--sql 92e885de-6840-49bd-bdda-eeac498f1655
select id, asset_id, status, retry_count, max_retries,
       coalesce(error_message, ''), not_before, created_at, updated_at
from jobs
where id = $1::bigint
limit 1;
`

const QSelectLatestJobForAsset = `--sql 8f3212c9-bf60-4e6f-8223-a24f7b514857
select id, asset_id, status, retry_count, max_retries,
       coalesce(error_message, ''), not_before, created_at, updated_at
from jobs
where asset_id = $1::bigint
order by created_at desc
limit 1;
`

const QCompleteJob = `--sql 81366035-e37d-4c56-867e-0a4aaeefa532
update jobs
set status = 'completed', error_message = null, updated_at = now()
where id = $1::bigint;
`

// QReleaseJobForRetry returns a failed attempt to the pending pool. The
// not_before stamp defers redelivery; no worker sleeps on the backoff.
const QReleaseJobForRetry = `--sql 894ae285-c1e1-4fba-9207-7ece62d290d8
update jobs
set status = 'pending',
    retry_count = $2::int,
    error_message = $3::text,
    not_before = now() + make_interval(secs => $4::double precision),
    updated_at = now()
where id = $1::bigint;
`

// QFailJobAndPoison is the terminal transition: one statement moves the job
// to 'failed' and appends its poison snapshot, so a crash between the two
// mutations cannot leave an exhausted job without its record.
const QFailJobAndPoison = `--sql 127e9ab2-b4a6-4b2c-a183-82339f1e22c9
with failed as (
  update jobs
  set status = 'failed', retry_count = $2::int, error_message = $3::text, updated_at = now()
  where id = $1::bigint
  returning id, asset_id
)
insert into poison_jobs (asset_id, original_job_id, error_message, retry_count)
select asset_id, id, $3::text, $2::int
from failed
returning id;
`
