package sqlinline

// QUpsertTenant resolves a tenant by name, creating it lazily on first
// upload. The do-update no-op makes the returning clause fire on conflict.
const QUpsertTenant = `--sql 12ea0510-a051-462a-bc4a-180477781ed9
insert into tenants (name)
values ($1::text)
on conflict (name) do update set name = excluded.name
returning id;
`
