package sqlinline

// QTenantMetrics aggregates per-tenant usage in one pass: asset and rendition
// counts plus total stored bytes (originals and renditions combined).
const QTenantMetrics = `--sql 1ad70079-3ecd-414f-8d28-902847142a06
select
  t.id,
  t.name,
  coalesce(a.asset_count, 0),
  coalesce(r.rendition_count, 0),
  coalesce(a.asset_bytes, 0) + coalesce(r.rendition_bytes, 0) as total_bytes
from tenants t
left join (
  select tenant_id, count(*) as asset_count, sum(original_bytes) as asset_bytes
  from assets
  group by tenant_id
) a on a.tenant_id = t.id
left join (
  select a2.tenant_id, count(*) as rendition_count, sum(r2.bytes) as rendition_bytes
  from renditions r2
  join assets a2 on a2.id = r2.asset_id
  group by a2.tenant_id
) r on r.tenant_id = t.id
order by t.name asc;
`
