package sqlinline

const QInsertAsset = `--sql e8fd139a-37b3-46a1-93af-3b04d8a1abd2
insert into assets (
  tenant_id,
  filename,
  content_hash,
  perceptual_hash,
  original_bytes,
  width,
  height,
  color_space,
  storage_key
) values (
  $1::bigint,
  $2::text,
  $3::text,
  $4::text,
  $5::bigint,
  $6::int,
  $7::int,
  $8::text,
  $9::text
) returning id;
`

const QSelectAssetByContentHash = `--sql 728794a4-f516-452a-a38c-f4cd1959959d
select id, tenant_id, filename, content_hash, perceptual_hash,
       original_bytes, width, height, color_space, storage_key, created_at
from assets
where content_hash = $1::text
limit 1;
`

const QSelectAssetByID = `--sql 8255f552-03c6-4c1d-882e-82a664703858
select id, tenant_id, filename, content_hash, perceptual_hash,
       original_bytes, width, height, color_space, storage_key, created_at
from assets
where id = $1::bigint
limit 1;
`
