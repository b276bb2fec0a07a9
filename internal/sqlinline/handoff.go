package sqlinline

const QEnsureHandoffTable = `--sql 3f0c9d1e-5a7b-4c2e-9e41-0b6d2f8a7c15
create table if not exists handoff_records (
    key        text primary key,
    value      bytea not null,
    updated_at timestamptz not null default now()
);
`

const QSelectHandoff = `--sql 9b2e4c71-0d3a-4f8e-b6a5-1c7d9e2f4a60
select value
from handoff_records
where key = $1::text
limit 1;
`

const QUpsertHandoff = `--sql c41d7a2e-8f6b-4e3c-a905-5d2b1e7f9c84
insert into handoff_records (key, value, updated_at)
values ($1::text, $2::bytea, now())
on conflict (key) do update set
    value = excluded.value,
    updated_at = now();
`

const QDeleteHandoff = `--sql 7e5a0b93-2c4d-4a1f-8d6e-e3f9b0c2a571
delete from handoff_records
where key = $1::text;
`

const QTakeHandoff = `--sql 0d8f3b6a-91c2-4e7d-a4b5-6f2e8c1d7b39
delete from handoff_records
where key = $1::text
returning value;
`
