package sqlinline

const QInsertDonation = `--sql d2b8c4e1-7f36-4a05-9e8b-1c5a0d93f624
insert into donations (id, campaign_id, donor_name, amount, chain, country, created_at)
values ($1::uuid, $2::uuid, $3::text, $4::numeric, $5::text, $6::text, $7::timestamptz);
`

const QListRecentDonations = `--sql 4e97a1f0-58cd-42b6-8d3e-b06f2c7a9153
select id, campaign_id, donor_name, amount, chain, country, created_at
from donations
order by created_at desc
limit $1::int;
`
