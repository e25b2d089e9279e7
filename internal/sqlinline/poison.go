package sqlinline

const QListPoisonJobs = `--sql 4b357cc3-566e-4178-9551-1fcdf222b6d0
select id, asset_id, coalesce(original_job_id, 0), error_message, retry_count, failed_at
from poison_jobs
order by failed_at desc
limit $1::int;
`
