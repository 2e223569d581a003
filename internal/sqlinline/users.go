package sqlinline

const QGetUser = `--sql 0c6f82d4-e1a9-47b3-95c0-7d48e3b1a265
select id, display_name, email, total_donated, created_at, updated_at
from users
where id = $1::uuid;
`

const QIncrementTotalDonated = `--sql a913e57b-64f2-40c8-bd17-28c05f6e94da
update users
set total_donated = total_donated + $2::numeric,
    updated_at = now()
where id = $1::uuid;
`
