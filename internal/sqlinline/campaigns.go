package sqlinline

const QListCampaigns = `--sql 3f2c1d84-9a40-4f7b-8c11-6e2d5b9a0f37
select id, title, description, category, goal, raised, chains, creator_id, created_at
from campaigns
order by created_at desc;
`

const QGetCampaign = `--sql b7e94a02-5c13-4d68-9f25-84a1c0de6b59
select id, title, description, category, goal, raised, chains, creator_id, created_at
from campaigns
where id = $1::uuid;
`

const QIncrementRaised = `--sql 61d0f3ab-2e87-49c4-b3da-f59e72c81406
update campaigns
set raised = raised + $2::numeric,
    updated_at = now()
where id = $1::uuid
returning id, title, description, category, goal, raised, chains, creator_id, created_at;
`

const QInsertCampaign = `--sql 8a45be73-016f-4c92-a7d8-3b62e94f50c1
insert into campaigns (id, title, description, category, goal, raised, chains, creator_id, created_at, updated_at)
values ($1::uuid, $2::text, $3::text, $4::text, $5::numeric, $6::numeric, $7::text[], nullif($8::text, '')::uuid, now(), now())
on conflict (id) do nothing;
`
