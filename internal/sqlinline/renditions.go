package sqlinline

// QInsertRendition relies on the (asset_id, preset) unique constraint: a
// concurrent duplicate insert conflicts and inserts nothing, which callers
// treat as already done.
const QInsertRendition = `--sql 24975139-dd5c-4404-9967-bc6803621164
insert into renditions (asset_id, preset, file_path, bytes, width, height, quality, color_space)
values ($1::bigint, $2::text, $3::text, $4::bigint, $5::int, $6::int, $7::int, $8::text)
on conflict (asset_id, preset) do nothing
returning id;
`

const QSelectRenditionPresets = `--sql 3e605249-4cb3-4ebf-9cdc-5c7e86ce109a
select preset
from renditions
where asset_id = $1::bigint;
`

const QListRenditionsByAsset = `--sql dcd62d0b-9871-43c0-aec7-c431a328a801
select id, asset_id, preset, file_path, bytes, width, height,
       coalesce(quality, 0), coalesce(color_space, ''), created_at
from renditions
where asset_id = $1::bigint
order by preset asc;
`

const QSelectRenditionByPreset = `--sql 9aa49e13-b047-4caf-84d5-e781d81c618f
select id, asset_id, preset, file_path, bytes, width, height,
       coalesce(quality, 0), coalesce(color_space, ''), created_at
from renditions
where asset_id = $1::bigint and preset = $2::text
limit 1;
`

// QListOrphanRenditions feeds the purge sweep: renditions older than the
// cutoff whose owning asset row no longer exists.
const QListOrphanRenditions = `--sql 769f0a9f-0e0e-4929-ba49-25a9a2458365
select r.id, r.asset_id, r.preset, r.file_path, r.bytes, r.width, r.height,
       coalesce(r.quality, 0), coalesce(r.color_space, ''), r.created_at
from renditions r
left join assets a on a.id = r.asset_id
where a.id is null
  and r.created_at < now() - make_interval(days => $1::int);
`

const QDeleteRendition = `--sql c9be9d65-7876-456a-96c8-9e18fbfacfdf
delete from renditions where id = $1::bigint;
`
